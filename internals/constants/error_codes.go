package constants

// Error codes returned in the JSON envelope ("error_code").
const (
	CodeInvalidCodeShape    = "INVALID_CODE_SHAPE"
	CodeUnknownPosition     = "UNKNOWN_POSITION"
	CodeDeviceNotAuthorized = "DEVICE_NOT_AUTHORIZED"
	CodeRemoteUnavailable   = "REMOTE_UNAVAILABLE"
	CodeIdempotencyConflict = "IDEMPOTENCY_CONFLICT"
)

// Pesan untuk kiosk (slovensky)
const (
	MsgInvalidBadge        = "Neplatné číslo čipu!"
	MsgUnknownPosition     = "Neznáma pozícia."
	MsgDeviceNotAuthorized = "Kód zariadenia nie je povolený."
	MsgNotRecorded         = "Nezaznamenané, skúste znova."
	MsgTryAgain            = "Služba je nedostupná, skúste znova."
	MsgIdempotencyConflict = "Kľúč požiadavky už patrí inému záznamu."
	MsgDeviceAuthorized    = "Zariadenie autorizované ✅"
	MsgDeviceForgotten     = "Autorizácia odstránená z tohto zariadenia."
)
