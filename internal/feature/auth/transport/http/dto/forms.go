// Package dto defines the form bodies accepted by the account pages.
package dto

// LoginForm is the POST /login form. Presence is checked by the usecase so each field gets its own message.
type LoginForm struct {
	Username string `form:"username" binding:"max=64"`
	Password string `form:"password" binding:"max=128"`
}

// RegisterForm is the POST /register form.
type RegisterForm struct {
	Username     string `form:"username" binding:"max=64"`
	Password     string `form:"password" binding:"max=128"`
	Confirmation string `form:"confirmation" binding:"max=128"`
}
