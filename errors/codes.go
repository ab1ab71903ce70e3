package errors

// Error codes are grouped per entity in blocks of one hundred. The blocks
// are stable: codes are part of the API contract and must not be renumbered.
const (
	CodeClientCreateFailed int64 = iota + 2001
	CodeClientGetByIDFailed
	CodeClientGetByAPIKeyFailed
	CodeClientNotFound
	CodeClientUpdateStatusFailed
	CodeClientGetAllFailed
	CodeClientDeleteFailed
	CodeClientGetByNameFailed
)

const (
	CodeChannelCreateFailed int64 = iota + 2101
	CodeChannelGetByIDFailed
	CodeChannelGetByNameFailed
	CodeChannelUpdateStatusFailed
	CodeChannelNotFound
	CodeChannelGetAllFailed
	CodeChannelDeleteFailed
)

const (
	CodeProviderCreateFailed int64 = iota + 2201
	CodeProviderGetByIDFailed
	CodeProviderGetByChannelIDFailed
	CodeProviderUpdateStatusFailed
	CodeProviderNotFound
	CodeProviderGetAllFailed
	CodeProviderDeleteFailed
)

const (
	CodeReceiverCreateFailed int64 = iota + 2301
	CodeReceiverGetByIDFailed
	CodeReceiverGetByClientIDFailed
	CodeReceiverDeleteFailed
	CodeReceiverNotFound
)

const (
	CodeTemplateCreateFailed int64 = iota + 2401
	CodeTemplateGetByIDFailed
	CodeTemplateGetAllFailed
	CodeTemplateGetByProviderIDFailed
	CodeTemplateGetByChannelIDFailed
	CodeTemplateDeleteFailed
	CodeTemplateNotFound
	CodeTemplateUpdateFailed
)

const (
	CodeRequestCreateFailed int64 = iota + 2501
	CodeRequestGetByIDFailed
	CodeRequestGetByReceiverFailed
	CodeRequestStatusUpdateFailed
)

const (
	CodeNotificationAcknowledgeFailed int64 = iota + 2601
	CodeNotificationPublishFailed
)

const (
	CodeUnauthorized int64 = iota + 2701
	CodeInvalidRequestBody
)
