package billing

import (
	"errors"

	"github.com/dmitrymomot/videovault/handler"
	"github.com/dmitrymomot/videovault/pkg/environment"
	"github.com/dmitrymomot/videovault/pkg/jwt"
	"github.com/dmitrymomot/videovault/svc/subscription"
)

var errUserNotFound = handler.ErrNotFound.WithMessage("User not found")

type CheckoutResponse struct {
	URL string `json:"url"`
}

func (s *Service) createCheckout(ctx handler.Context, _ struct{}) handler.Response {
	userID := jwt.UserIDFromContext(ctx)
	if userID == "" {
		return handler.Error(handler.ErrUnauthorized)
	}

	session, err := s.reconciler.BeginCheckout(ctx, userID)
	if err != nil {
		if errors.Is(err, subscription.ErrUserNotFound) {
			return handler.Error(errUserNotFound)
		}
		return handler.Error(err)
	}

	return handler.JSON(CheckoutResponse{URL: session.URL})
}

type ManualActivationRequest struct {
	UserID         string `json:"userId"`
	SubscriptionID string `json:"subscriptionId"`
}

type ManualActivationResponse struct {
	Message        string `json:"message"`
	UserID         string `json:"userId"`
	SubscriptionID string `json:"subscriptionId"`
}

func (s *Service) manualActivate(ctx handler.Context, req ManualActivationRequest) handler.Response {
	if environment.IsProduction(ctx) {
		return handler.Error(handler.ErrNotFound)
	}

	err := s.reconciler.ManualActivate(ctx, req.UserID, req.SubscriptionID)
	switch {
	case errors.Is(err, subscription.ErrActivationFieldsRequired):
		return handler.Error(handler.ErrBadRequest.WithMessage("userId and subscriptionId are required"))
	case errors.Is(err, subscription.ErrUserNotFound):
		return handler.Error(errUserNotFound)
	case err != nil:
		return handler.Error(err)
	}

	return handler.JSON(ManualActivationResponse{
		Message:        "Subscription activated successfully",
		UserID:         req.UserID,
		SubscriptionID: req.SubscriptionID,
	})
}
