package models

// SignInRequest is the body of POST /auth/login and the login form.
type SignInRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// SignUpRequest is the body of POST /auth/signup and the sign-up form.
type SignUpRequest struct {
	Email           string `json:"email" form:"email" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"`
}

// IDTokenRequest exchanges an ID token minted by the Firebase client SDK for a session.
type IDTokenRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// FeedRequest asks for one catalog page. Page 0 means "the next page" on a
// continuation and page 1 on a reset.
type FeedRequest struct {
	Query string `form:"query"`
	Page  int    `form:"page"`
	Reset bool   `form:"reset"`
}
