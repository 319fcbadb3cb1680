// Package validator composes field validation from small rules.
//
// Each rule pairs a check with the ValidationError to report when the check
// fails; Apply runs them all and returns ValidationErrors (or nil):
//
//	err := validator.Apply(
//		validator.RequiredString("email", req.Email),
//		validator.ValidEmail("email", req.Email),
//		validator.LengthBetween("password", req.Password, 8, 128),
//	)
//
// The HTTP layer recognises ValidationErrors and answers 400 with the
// per-field details.
package validator
