package platformsdk

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "invalid_request")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Session Types
// ============================================================================

// RegisterRequest creates a new student account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionRequest is the sign-in request body.
type SessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse carries the session token minted at sign-in.
type SessionResponse struct {
	// AccessToken is the JWT session token for Authorization: Bearer use
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the token lifetime in seconds
	ExpiresIn int `json:"expires_in"`

	Profile ProfileResponse `json:"profile"`
}

// ProfileResponse mirrors a platform profile.
type ProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// PasswordChangeRequest rotates the caller's own password.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ============================================================================
// Invitation Types
// ============================================================================

// InvitationRequest asks for a new role invitation to be issued.
type InvitationRequest struct {
	// Email is the invitee address the token is mailed to
	Email string `json:"email"`

	// Role is the platform role granted on acceptance
	Role string `json:"role"`
}

// InvitationResponse is returned to the issuing admin. The raw token is
// included so the admin can re-deliver it if the email bounces.
type InvitationResponse struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	InviteToken string `json:"invite_token"`
	ExpiresAt   string `json:"expires_at,omitempty"`

	// Delivered is false when the record was created but the invitation
	// email could not be sent.
	Delivered bool `json:"delivered"`
}

// InvitationAcceptRequest redeems an invitation. The accepting account comes
// from the session, never from the body.
type InvitationAcceptRequest struct {
	Email       string `json:"email"`
	InviteToken string `json:"invite_token"`
}

// InvitationAcceptResponse reports the role granted by redemption.
type InvitationAcceptResponse struct {
	Role string `json:"role"`
}

// ============================================================================
// Recovery Types
// ============================================================================

// RecoveryStartRequest begins self-service password recovery.
type RecoveryStartRequest struct {
	Email string `json:"email"`
}

// RecoveryCompleteRequest consumes a recovery token to set a new password.
type RecoveryCompleteRequest struct {
	RecoveryToken string `json:"recovery_token"`
	NewPassword   string `json:"new_password"`
}

// ============================================================================
// Admin Account Types
// ============================================================================

// PasswordResetResponse carries the generated replacement password back to
// the service-tier caller for out-of-band delivery.
type PasswordResetResponse struct {
	Password string `json:"password"`
}

// RoleChangeRequest sets an account's role directly (service tier).
type RoleChangeRequest struct {
	Role string `json:"role"`
}

// ============================================================================
// Donation Types
// ============================================================================

// DonationRequest records a donation pledge.
type DonationRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency,omitempty"`
	Note        string `json:"note,omitempty"`
}

// DonationResponse mirrors a donation record. Reference is the identifier
// the donor quotes on their payment.
type DonationResponse struct {
	ID          string `json:"id"`
	Reference   string `json:"reference"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	Note        string `json:"note,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// DonationResolveRequest moves a pending donation to its final status.
type DonationResolveRequest struct {
	// Status must be "confirmed" or "rejected"
	Status string `json:"status"`
}

// ============================================================================
// Contact Types
// ============================================================================

// MessageRequest is a contact-form submission.
type MessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// MessageResponse mirrors a stored contact message.
type MessageResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// ============================================================================
// Content Types
// ============================================================================

// CourseRequest creates or updates a course.
type CourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Published   bool   `json:"published,omitempty"`
}

// CourseResponse mirrors a course record.
type CourseResponse struct {
	ID          string `json:"id"`
	TutorID     string `json:"tutor_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Published   bool   `json:"published"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ResourceRequest creates a study resource, optionally attached to a course.
type ResourceRequest struct {
	CourseID string `json:"course_id,omitempty"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Kind     string `json:"kind,omitempty"`
}

// ResourceResponse mirrors a resource record.
type ResourceResponse struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	CourseID  string `json:"course_id,omitempty"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Kind      string `json:"kind,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Mailer   string `json:"mailer,omitempty"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
