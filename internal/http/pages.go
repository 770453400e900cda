package httpx

import (
	"net/http"

	domainauth "github.com/calcfunding/portal/internal/domain/auth"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/http/ui/viewmodel"
	"github.com/calcfunding/portal/internal/http/validation"
)

func newLayout(r *http.Request, page viewmodel.Page) viewmodel.Layout {
	var user *viewmodel.User
	if id, ok := domainauth.FromContext(r.Context()); ok {
		user = &viewmodel.User{ID: id.UserID, DisplayName: id.DisplayName, Email: id.Email}
	}
	return viewmodel.NewLayout(page, user)
}

func badForm(err error) error {
	return apperrors.Wrap(err, apperrors.ErrCodeValidation, "The form could not be read")
}

// writeFormErrors answers a failed form submit with the error summary and
// inline messages in form order.
func writeFormErrors(w http.ResponseWriter, _ *http.Request, fieldErrors []validation.FieldError) {
	summary := viewmodel.ErrorSummary{Entries: []viewmodel.ErrorEntry{}}
	summary.AddFieldErrors(fieldErrors)
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:       string(apperrors.ErrCodeValidation),
		Message:     "There is a problem",
		Summary:     summary,
		FieldErrors: summary.FieldMessages(),
	})
}
