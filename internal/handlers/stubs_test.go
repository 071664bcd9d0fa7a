package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/GregMSThompson/dadhelper-backend/internal/dto"
	"github.com/GregMSThompson/dadhelper-backend/internal/middleware"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
)

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":true}`))
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, _, _ string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

type stubUserService struct {
	uid, email string
	req        dto.RegisterRequest
	ensure     dto.EnsureUserResponse
	session    dto.SessionResponse
	err        error
}

func (s *stubUserService) Register(_ context.Context, uid, email string, req dto.RegisterRequest) (*models.User, error) {
	s.uid, s.email, s.req = uid, email, req
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{UID: uid, Email: email, Role: req.Role}, nil
}

func (s *stubUserService) EnsureUser(_ context.Context, uid, email string) (dto.EnsureUserResponse, error) {
	s.uid, s.email = uid, email
	return s.ensure, s.err
}

func (s *stubUserService) ResolveSession(_ context.Context, uid string) (dto.SessionResponse, error) {
	s.uid = uid
	return s.session, s.err
}

type stubDadService struct {
	uid       string
	status    string
	profile   dto.UpdateDadProfileRequest
	upload    dto.PhotoUpload
	photo     []byte
	dads      []*models.Dad
	err       error
	listCalls int
}

func (s *stubDadService) ListApproved(context.Context) ([]*models.Dad, error) {
	s.listCalls++
	return s.dads, s.err
}

func (s *stubDadService) GetPublic(_ context.Context, uid string) (*models.Dad, error) {
	s.uid = uid
	if s.err != nil {
		return nil, s.err
	}
	return &models.Dad{UID: uid, Status: models.StatusApproved}, nil
}

func (s *stubDadService) GetOwn(_ context.Context, uid string) (*models.Dad, error) {
	s.uid = uid
	return &models.Dad{UID: uid}, s.err
}

func (s *stubDadService) UpdateProfile(_ context.Context, uid string, req dto.UpdateDadProfileRequest) (*models.Dad, error) {
	s.uid, s.profile = uid, req
	return &models.Dad{UID: uid}, s.err
}

func (s *stubDadService) UploadPhoto(_ context.Context, uid string, upload dto.PhotoUpload, body io.Reader) (*models.Dad, error) {
	s.uid, s.upload = uid, upload
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	s.photo = b
	return &models.Dad{UID: uid}, s.err
}

func (s *stubDadService) ListByStatus(_ context.Context, status string) ([]*models.Dad, error) {
	s.status = status
	return s.dads, s.err
}

func (s *stubDadService) SetStatus(_ context.Context, uid, status string) (*models.Dad, error) {
	s.uid, s.status = uid, status
	return &models.Dad{UID: uid, Status: status}, s.err
}

type stubBookingService struct {
	dadUID, parentUID, parentEmail string
	bookingID, status              string
	req                            dto.CreateBookingRequest
	filter                         dto.BookingFilter
	err                            error
}

func (s *stubBookingService) Submit(_ context.Context, dadUID, parentUID, parentEmail string, req dto.CreateBookingRequest) (*models.Booking, error) {
	s.dadUID, s.parentUID, s.parentEmail, s.req = dadUID, parentUID, parentEmail, req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Booking{BookingID: "b1", DadUID: dadUID, Status: models.StatusPending}, nil
}

func (s *stubBookingService) ListForParent(_ context.Context, parentUID string) ([]*models.Booking, error) {
	s.parentUID = parentUID
	return []*models.Booking{}, s.err
}

func (s *stubBookingService) ListForDad(_ context.Context, dadUID, status string) ([]*models.Booking, error) {
	s.dadUID, s.status = dadUID, status
	return []*models.Booking{}, s.err
}

func (s *stubBookingService) DadSetStatus(_ context.Context, dadUID, bookingID, status string) (*models.Booking, error) {
	s.dadUID, s.bookingID, s.status = dadUID, bookingID, status
	return &models.Booking{BookingID: bookingID, Status: status}, s.err
}

func (s *stubBookingService) ListForAdmin(_ context.Context, filter dto.BookingFilter) ([]*models.Booking, error) {
	s.filter = filter
	return []*models.Booking{}, s.err
}

func (s *stubBookingService) AdminSetStatus(_ context.Context, bookingID, status string) (*models.Booking, error) {
	s.bookingID, s.status = bookingID, status
	return &models.Booking{BookingID: bookingID, Status: status}, s.err
}

// withIdentity stands in for FirebaseAuth in tests.
func withIdentity(uid, email string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UIDKey, uid)
			ctx = context.WithValue(ctx, middleware.EmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }
