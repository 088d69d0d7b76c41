package mount

import (
	"net/http"

	"github.com/dropDatabas3/instancestore/internal/apperr"
)

var (
	// ErrNoConfiguration: no hay conexión estática para el nombre ni options.
	ErrNoConfiguration = apperr.New(apperr.KindMount, http.StatusNotFound,
		"MOUNT_NOT_CONFIGURED", "no configuration found or specified for mount")

	// ErrNoPath: la configuración no define "path" ni "root".
	ErrNoPath = apperr.New(apperr.KindArgument, http.StatusBadRequest,
		"MOUNT_NO_PATH", `no "path" or "root" defined for mount`)

	// ErrConflictingPath: "path" y "root" presentes con valores distintos.
	ErrConflictingPath = apperr.New(apperr.KindArgument, http.StatusBadRequest,
		"MOUNT_CONFLICTING_PATH", `"path" and "root" are mutually exclusive`)

	ErrUnknownDriver = apperr.New(apperr.KindMount, http.StatusBadRequest,
		"MOUNT_UNKNOWN_DRIVER", "unknown mount driver")

	// ErrOpenArchive: el archivo del driver zip no existe o no es un zip.
	ErrOpenArchive = apperr.New(apperr.KindMount, http.StatusUnprocessableEntity,
		"MOUNT_OPEN_ARCHIVE", "unable to open mount archive")

	ErrUnknownKey = apperr.New(apperr.KindConfiguration, http.StatusInternalServerError,
		"MOUNT_UNKNOWN_KEY", "unknown key in mount connection")
)

func IsMount(err error) bool    { return apperr.IsKind(err, apperr.KindMount) }
func IsArgument(err error) bool { return apperr.IsKind(err, apperr.KindArgument) }
