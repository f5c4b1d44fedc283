package compute

import (
	"net/http"

	"github.com/syspanel/syspanel/internal/common/apperrors"
)

// Base compute error
var (
	ErrComputeError apperrors.Error = apperrors.New("compute service error").SetStatusCode(http.StatusBadGateway)
)

var (
	ErrUnableToGetQuotaDefaults apperrors.Error = ErrComputeError.New("unable to retrieve default quota values").SetExpandError(true)
	ErrUnableToGetQuota         apperrors.Error = ErrComputeError.New("unable to retrieve project quota").SetExpandError(true)
	ErrUnableToSetQuota         apperrors.Error = ErrComputeError.New("unable to update project quota").SetExpandError(true)
	ErrUnableToGetUsage         apperrors.Error = ErrComputeError.New("unable to retrieve usage information").SetExpandError(true)
)
