package services

import "aiagents-backend/internal/apperr"

var (
	ErrInvalidCredentials  = apperr.New(apperr.Authentication, "Invalid email or password")
	ErrUnauthenticated     = apperr.New(apperr.Authentication, "Authentication required")
	ErrInvalidRefreshToken = apperr.New(apperr.Authentication, "Invalid or expired refresh token")
	ErrAccountInactive     = apperr.New(apperr.Authorization, "Account is not active")
	ErrForbidden           = apperr.New(apperr.Authorization, "Insufficient permissions")
	ErrSelfModeration      = apperr.New(apperr.Authorization, "You cannot change your own role or status")
	ErrEmailTaken          = apperr.New(apperr.Conflict, "Email is already registered")
	ErrOptimisticLock      = apperr.New(apperr.Conflict, "Data has been modified by another user, please refresh and try again")
	ErrUserNotFound        = apperr.New(apperr.NotFound, "User not found")
	ErrSessionNotFound     = apperr.New(apperr.NotFound, "Session not found")
	ErrWrongPassword       = apperr.New(apperr.Validation, "Current password is incorrect")
	ErrInvalidRole         = apperr.New(apperr.Validation, "Invalid role")
	ErrInvalidStatus       = apperr.New(apperr.Validation, "Invalid status")

	ErrAgentNotFound        = apperr.New(apperr.NotFound, "Agent not found")
	ErrAgentNotPurchasable  = apperr.New(apperr.Validation, "Agent is not available for purchase")
	ErrInvalidAgentConfig   = apperr.New(apperr.Validation, "Invalid agent config")
	ErrOrderNotFound        = apperr.New(apperr.NotFound, "Order not found")
	ErrOrderAlreadyPaid     = apperr.New(apperr.Conflict, "Order already paid")
	ErrInvalidOrderStatus   = apperr.New(apperr.Conflict, "Invalid order status for this operation")
	ErrInvalidSignature     = apperr.New(apperr.Validation, "Invalid payment signature")
	ErrPaymentUnavailable   = apperr.New(apperr.Validation, "No payment driver is configured")
	ErrSubscriptionNotFound = apperr.New(apperr.NotFound, "Subscription not found")
	ErrSubscriptionInactive = apperr.New(apperr.Conflict, "Subscription is not active")
	ErrConversationNotFound = apperr.New(apperr.NotFound, "Conversation not found")

	ErrAggregation = apperr.New(apperr.Aggregation, "Failed to compute analytics")
)
