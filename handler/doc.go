// Package handler turns typed request handlers into http.HandlerFunc.
//
// A HandlerFunc receives a Context and a request value already populated by
// the configured binders, and returns a Response. Binding failures, render
// failures and Error responses all flow into one ErrorHandler, which the
// service configures once with NewErrorHandler so every endpoint answers
// errors as {"error": "...", "code": "..."}.
//
//	type addVideoRequest struct {
//		URL string `json:"url"`
//	}
//
//	r.Post("/", handler.Wrap(
//		func(ctx handler.Context, req addVideoRequest) handler.Response {
//			video, err := svc.Add(ctx, userID, req.URL)
//			if err != nil {
//				return handler.Error(err)
//			}
//			return handler.JSON(map[string]any{"video": video}, handler.WithStatus(http.StatusCreated))
//		},
//		handler.WithBinders[handler.Context, addVideoRequest](handler.BindJSON()),
//		handler.WithErrorHandler[handler.Context, addVideoRequest](errorHandler),
//	))
package handler
