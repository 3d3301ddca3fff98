package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookinglink/core/errors"
	"bookinglink/modules/booking/dto"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingService struct {
	resp   *dto.BookingResponse
	appErr *errors.AppError
}

func (s *fakeBookingService) Book(ctx context.Context, clientIP string, req *dto.BookingRequest) (*dto.BookingResponse, *errors.AppError) {
	if s.appErr != nil {
		return nil, s.appErr
	}
	return s.resp, nil
}

func doBook(t *testing.T, svc *fakeBookingService, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ctrl := NewBookingController(svc)
	require.NoError(t, ctrl.Book(c))
	return rec
}

func TestBookReturnsOK(t *testing.T) {
	svc := &fakeBookingService{
		resp: &dto.BookingResponse{
			Status:  "confirmed",
			EventID: "evt-123",
			Title:   "Booking: Bob",
		},
	}

	rec := doBook(t, svc, `{"slug":"alice-x1y2z3","start_time":1,"end_time":2,"customer_name":"Bob","customer_email":"bob@example.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "evt-123", resp.EventID)
}

func TestBookErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code   errors.ErrorCode
		status int
	}{
		{errors.ErrRateLimited, http.StatusTooManyRequests},
		{errors.ErrConflict, http.StatusConflict},
		{errors.ErrNotFound, http.StatusNotFound},
		{errors.ErrUpstream, http.StatusBadGateway},
		{errors.ErrInvalidRequestData, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			svc := &fakeBookingService{appErr: errors.NewAppError(tc.code, "nope", nil)}

			rec := doBook(t, svc, `{"slug":"alice-x1y2z3"}`)

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
