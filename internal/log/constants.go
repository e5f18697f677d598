package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyProcess            = "process"
	KeyTag                = "tag"
	KeyEmail              = "email"
	KeyConfig             = "config"
	KeyCacheKey           = "cacheKey"
	KeyCartID             = "cartId"
	KeyCartItemID         = "cartItemId"
	KeyProductID          = "productId"
	KeyOrderID            = "orderId"
	KeyOrderStatus        = "orderStatus"
	KeyQuantity           = "quantity"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIP          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyDbURL              = "dbUrl"
	KeyCollection         = "collection"
	KeyDocumentID         = "documentId"
)
