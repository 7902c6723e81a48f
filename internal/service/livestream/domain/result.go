// internal/service/livestream/domain/result.go
package domain

import "fmt"

// OrderProcessingResult 是一次口令处理返回给调用方的最终结果。
// 所有失败都被折叠成 Success=false + 面向用户的提示文案，
// 任何错误类型都不会穿透到接口层。
type OrderProcessingResult struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	OrderID string             `json:"orderId,omitempty"`
	Product *LivestreamProduct `json:"product,omitempty"`
	Intent  *OrderIntent       `json:"orderIntent,omitempty"`
}

// FailureCode 标识失败的类别，决定编排如何收尾以及用户看到什么文案。
type FailureCode string

const (
	FailureNotAnIntent       FailureCode = "NOT_AN_INTENT"
	FailureProductNotFound   FailureCode = "PRODUCT_NOT_FOUND"
	FailureMissingAddress    FailureCode = "MISSING_ADDRESS"
	FailureInsufficientStock FailureCode = "INSUFFICIENT_STOCK"
	FailureReservation       FailureCode = "RESERVATION_FAILED"
	FailureOrderCreation     FailureCode = "ORDER_CREATION_FAILED"
	FailureDuplicate         FailureCode = "DUPLICATE_MESSAGE"
	FailureInternal          FailureCode = "INTERNAL"
)

// IntakeError 在编排内部传递，携带失败类别和用户可见文案。
type IntakeError struct {
	Code        FailureCode
	UserMessage string
	Cause       error
}

func (e *IntakeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	return string(e.Code)
}

func (e *IntakeError) Unwrap() error {
	return e.Cause
}

// NewIntakeError 构造一个带用户文案的编排错误。
func NewIntakeError(code FailureCode, userMessage string, cause error) *IntakeError {
	return &IntakeError{Code: code, UserMessage: userMessage, Cause: cause}
}

// 面向观众的文案统一用越南语，与直播间的聊天语境保持一致。
const (
	MsgFormatNotRecognized = "Không nhận diện được cú pháp đặt hàng. Vui lòng nhắn: đặt <mã sản phẩm> x<số lượng>."
	MsgReservationFailed   = "Không thể cập nhật tồn kho, vui lòng thử lại."
	MsgMissingAddress      = "Thiếu thông tin địa chỉ nhận hàng hoặc gian hàng."
	MsgOrderFailed         = "Đặt hàng thất bại, vui lòng thử lại sau."
	MsgSystemBusy          = "Hệ thống đang bận, vui lòng thử lại sau."
	MsgDuplicateMessage    = "Tin nhắn đặt hàng này vừa được xử lý. Vui lòng kiểm tra đơn hàng của bạn."
)

// MsgProductNotFound 提示找不到对应 SKU 的直播商品。
func MsgProductNotFound(sku string) string {
	return fmt.Sprintf("Không tìm thấy sản phẩm với mã %s trong phiên live.", sku)
}

// MsgInsufficientStock 提示库存不足，并告知当前可售数量。
func MsgInsufficientStock(sku string, available int) string {
	return fmt.Sprintf("Sản phẩm %s chỉ còn %d sản phẩm, không đủ số lượng bạn yêu cầu.", sku, available)
}

// MsgOrderConfirmation 生成下单成功的确认文案：
// 商品名、数量、总金额和 10 phút 支付期限。
func MsgOrderConfirmation(productName string, quantity int, totalVND string, deadlineMinutes int) string {
	return fmt.Sprintf(
		"Đặt hàng thành công! %s x%d. Tổng tiền: %sđ. Vui lòng thanh toán trong %d phút để giữ đơn hàng.",
		productName, quantity, totalVND, deadlineMinutes,
	)
}
