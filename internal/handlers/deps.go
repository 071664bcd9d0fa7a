package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/dadhelper-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	UserSvc         UserService
	DadSvc          DadService
	BookingSvc      BookingService

	Service string
	Version string
}
