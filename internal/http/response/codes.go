package response

// StatusCode classifies a request outcome. Values below CodeBoundary are
// literal HTTP statuses and pass through to the transport unchanged; values
// at or above it are service-defined business codes and translate to a
// generic transport status at the boundary (200 for the success family,
// 400 for the error family).
type StatusCode int

// CodeBoundary separates the two numbering spaces. It is a named constant
// rather than an inline literal so the split can be revisited in one place.
const CodeBoundary StatusCode = 1000

const (
	CodeSuccess  StatusCode = 200
	CodeCreated  StatusCode = 201
	CodeAccepted StatusCode = 202

	CodeBadRequest      StatusCode = 40000
	CodeValidationError StatusCode = 40001
	CodeParamError      StatusCode = 40002

	CodeUnauthorized StatusCode = 40100
	CodeTokenExpired StatusCode = 40101
	CodeTokenInvalid StatusCode = 40102

	CodeForbidden    StatusCode = 40300
	CodeAccessDenied StatusCode = 40301

	CodeNotFound         StatusCode = 40400
	CodeResourceNotFound StatusCode = 40401

	CodeMethodNotAllowed StatusCode = 40500

	CodeConflict          StatusCode = 40900
	CodeDuplicateResource StatusCode = 40901

	CodeInternalError      StatusCode = 50000
	CodeServiceUnavailable StatusCode = 50001
	CodeDatabaseError      StatusCode = 50002

	CodeThirdPartyError  StatusCode = 50200
	CodeExternalAPIError StatusCode = 50201
)

// httpStatus maps the business code onto the wire status.
func (c StatusCode) httpStatus(fallback int) int {
	if c < CodeBoundary {
		return int(c)
	}
	return fallback
}
