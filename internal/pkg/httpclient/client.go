// internal/pkg/httpclient/client.go

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"streamcart/internal/pkg/nacos"
)

// Resolver 将服务名解析为一个可用的实例地址。
// 生产环境由 Nacos 实现，测试中可以用固定地址替换。
type Resolver interface {
	DiscoverServiceInstance(serviceName string) (string, int, error)
}

var _ Resolver = (*nacos.Client)(nil)

// Client 是一个可追踪的、带服务发现的 HTTP 客户端。
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client
	resolver   Resolver
}

// NewClient 创建一个新的客户端实例。
// 底层的 http.Client 不设置全局 Timeout，完全受每次请求传入的 context 控制。
func NewClient(tracer trace.Tracer, resolver Resolver) *Client {
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
	}
	return &Client{
		Tracer:     tracer,
		HTTPClient: httpClient,
		resolver:   resolver,
	}
}

// CallService 通过服务发现调用下游服务，丢弃响应体，只关心成败。
func (c *Client) CallService(ctx context.Context, serviceName, path string, params url.Values) error {
	_, err := c.do(ctx, http.MethodPost, serviceName, path, params, nil)
	return err
}

// GetJSON 通过服务发现发起 GET 请求，并把响应体反序列化到 out。
func (c *Client) GetJSON(ctx context.Context, serviceName, path string, params url.Values, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, serviceName, path, params, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s%s", serviceName, path)
	}
	return nil
}

// PostJSON 通过服务发现发起 POST 请求，请求体为 in 的 JSON 序列化结果。
func (c *Client) PostJSON(ctx context.Context, serviceName, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
	}
	body, err := c.do(ctx, http.MethodPost, serviceName, path, nil, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s%s", serviceName, path)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, serviceName, path string, params url.Values, payload []byte) ([]byte, error) {
	ctx, span := c.Tracer.Start(ctx, fmt.Sprintf("call-%s", serviceName), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	ip, port, err := c.resolver.DiscoverServiceInstance(serviceName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "service discovery failed")
		return nil, errors.Wrapf(err, "failed to resolve service %s", serviceName)
	}

	downstreamURL := url.URL{
		Scheme:   "http",
		Host:     fmt.Sprintf("%s:%d", ip, port),
		Path:     path,
		RawQuery: params.Encode(),
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, downstreamURL.String(), bodyReader)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	span.SetAttributes(
		attribute.String("http.url", downstreamURL.String()),
		attribute.String("http.method", method),
		attribute.String("peer.service", serviceName),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		return nil, ErrNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		err := errors.Errorf("service %s%s returned status %s", serviceName, path, resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return body, nil
}

// ErrNotFound 表示下游服务返回了 404，调用方据此区分“不存在”和“出错”。
var ErrNotFound = errors.New("resource not found")
