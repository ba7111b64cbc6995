package inbound

import (
	"time"

	"github.com/shandysiswandi/otpguard/internal/otp/usecase"
	"github.com/shandysiswandi/otpguard/internal/pkg/router"
)

// HTTPEndpoint exposes the OTP issue and verify flow over HTTP.
type HTTPEndpoint struct {
	uc uc
}

// RequestOTP issues a new code and emails it.
// @Summary Request OTP
// @Description Checks the account, spam and cooldown locks, tracks the request and emails a new 4 digit code.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body RequestOTPRequest true "Request payload"
// @Success 200 {object} router.successResponse{data=RequestOTPResponse} "Code issued"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 423 {object} router.errorResponse "Account locked"
// @Failure 429 {object} router.errorResponse "Spam lock or cooldown"
// @Failure 503 {object} router.errorResponse "Code stored but delivery failed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/request [post]
func (h *HTTPEndpoint) RequestOTP(r *router.Request) (any, error) {
	var req RequestOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestOTP(r.Context(), usecase.RequestOTPInput{
		Email:       req.Email,
		Name:        req.Name,
		AccountType: req.AccountType,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
	})
	if err != nil {
		return nil, err
	}

	return RequestOTPResponse{
		ExpiresInSeconds:   seconds(resp.ExpiresIn),
		CooldownForSeconds: seconds(resp.CooldownFor),
	}, nil
}

// RedeliverOTP resends the current code.
// @Summary Redeliver OTP
// @Description Sends the stored code again after a failed delivery. Counts toward the request limit.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body RedeliverOTPRequest true "Redeliver payload"
// @Success 200 {object} router.successResponse{data=RedeliverOTPResponse} "Code sent"
// @Failure 410 {object} router.errorResponse "No current code"
// @Failure 423 {object} router.errorResponse "Account locked"
// @Failure 429 {object} router.errorResponse "Spam lock"
// @Failure 503 {object} router.errorResponse "Delivery failed"
// @Router /api/v1/otp/redeliver [post]
func (h *HTTPEndpoint) RedeliverOTP(r *router.Request) (any, error) {
	var req RedeliverOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RedeliverOTP(r.Context(), usecase.RedeliverOTPInput{
		Email: req.Email,
		Name:  req.Name,
	}); err != nil {
		return nil, err
	}

	return RedeliverOTPResponse{}, nil
}

// VerifyOTP checks a submitted code.
// @Summary Verify OTP
// @Description Accepts the code once. The third wrong code locks the account for 30 minutes.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "Code accepted"
// @Failure 401 {object} router.errorResponse "Wrong code"
// @Failure 410 {object} router.errorResponse "Code expired or absent"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 423 {object} router.errorResponse "Account locked"
// @Router /api/v1/otp/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{Email: resp.Email, Verified: true}, nil
}

// Status reports locks and remaining attempts for an email.
// @Summary OTP status
// @Tags OTP
// @Produce json
// @Param email query string true "Email"
// @Success 200 {object} router.successResponse{data=StatusResponse} "Current state"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/otp/status [get]
func (h *HTTPEndpoint) Status(r *router.Request) (any, error) {
	st, err := h.uc.Status(r.Context(), usecase.StatusInput{Email: r.GetQuery("email")})
	if err != nil {
		return nil, err
	}

	return StatusResponse{
		State:                   string(st.State),
		CodeExpiresInSeconds:    seconds(st.CodeExpiresIn),
		AccountLockedForSeconds: seconds(st.AccountLockedFor),
		SpamLockedForSeconds:    seconds(st.SpamLockedFor),
		CooldownForSeconds:      seconds(st.CooldownFor),
		AttemptsRemaining:       st.AttemptsRemaining,
		RequestsRemaining:       st.RequestsRemaining,
	}, nil
}

func seconds(d time.Duration) int {
	return int(d.Round(time.Second) / time.Second)
}
