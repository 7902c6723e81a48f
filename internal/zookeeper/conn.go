// internal/zookeeper/conn.go
package zookeeper

import (
	"time"

	"github.com/go-zookeeper/zk"

	"streamcart/internal/pkg/logger"
)

// Conn 是对 zk.Conn 的一层薄封装，统一创建参数并收敛使用面。
type Conn struct {
	*zk.Conn
}

// NewConn 建立到 ZooKeeper 集群的连接。
func NewConn(servers []string) (*Conn, error) {
	conn, _, err := zk.Connect(servers, 10*time.Second, zk.WithLogInfo(false))
	if err != nil {
		return nil, err
	}
	logger.Logger().Info().Strs("servers", servers).Msg("Connected to ZooKeeper")
	return &Conn{Conn: conn}, nil
}

// Close 关闭连接，所有临时节点随会话结束被清理。
func (c *Conn) Close() {
	c.Conn.Close()
}
