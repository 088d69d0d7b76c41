package managed

import (
	"net/http"

	"github.com/dropDatabas3/instancestore/internal/apperr"
)

// Configuration: manifest presente pero roto. Fatal.
var (
	ErrManifestMalformed = apperr.New(apperr.KindConfiguration, http.StatusInternalServerError,
		"MANIFEST_MALFORMED", "this instance is not configured properly for your system environment")
	ErrManifestIncomplete = apperr.New(apperr.KindConfiguration, http.StatusInternalServerError,
		"MANIFEST_INCOMPLETE", `cluster manifest requires "console-api-url", "client-id" and "client-secret"`)
	ErrSignatureMethod = apperr.New(apperr.KindConfiguration, http.StatusInternalServerError,
		"SIGNATURE_METHOD", "unsupported signature method")
)

// Validation: el manifest no aplica a este host. Se trata como unmanaged.
var (
	ErrDomainMismatch = apperr.New(apperr.KindValidation, http.StatusBadRequest,
		"DOMAIN_MISMATCH", `invalid "default-domain" for host`)
	ErrNoStorageRoot = apperr.New(apperr.KindValidation, http.StatusBadRequest,
		"NO_STORAGE_ROOT", `no "storage-root" found`)
	ErrNoInstanceName = apperr.New(apperr.KindValidation, http.StatusBadRequest,
		"NO_INSTANCE_NAME", "instance name could not be derived from host")
)

// Protocol: la respuesta del console no tiene la forma esperada.
var ErrCorruptResponse = apperr.New(apperr.KindProtocol, http.StatusServiceUnavailable,
	"CORRUPT_RESPONSE", "corrupt response during status query")

// State: el console respondió, pero la instancia no es utilizable.
var (
	ErrInstanceNotFound = apperr.New(apperr.KindState, http.StatusNotFound,
		"INSTANCE_NOT_FOUND", "unmanaged instance detected")
	ErrInstanceArchived = apperr.New(apperr.KindState, http.StatusUnprocessableEntity,
		"INSTANCE_ARCHIVED", "instance has been archived")
	ErrInstanceDeleted = apperr.New(apperr.KindState, http.StatusUnprocessableEntity,
		"INSTANCE_DELETED", "instance has been deleted")
	ErrNotManaged = apperr.New(apperr.KindState, http.StatusConflict,
		"NOT_MANAGED", "instance is not managed")
)

// Transport: no se pudo hablar con el console. La causa se loguea en el call
// site; hacia afuera solo sale este error.
var ErrUnmanagedDetected = apperr.New(apperr.KindTransport, http.StatusNotFound,
	"CONSOLE_UNREACHABLE", "unmanaged instance detected: cluster unreachable or in disarray")

func IsConfiguration(err error) bool { return apperr.IsKind(err, apperr.KindConfiguration) }
func IsValidation(err error) bool    { return apperr.IsKind(err, apperr.KindValidation) }
func IsProtocol(err error) bool      { return apperr.IsKind(err, apperr.KindProtocol) }
func IsState(err error) bool         { return apperr.IsKind(err, apperr.KindState) }
func IsTransport(err error) bool     { return apperr.IsKind(err, apperr.KindTransport) }
