// Package httpclient sends load generator payloads over HTTP.
//
// [NewClient] builds an http.Client with connection pooling sized for the
// worker pool, and [Sender] wraps it as a runner.Transport:
//
//	client := httpclient.NewClient(30*time.Second, 32)
//	sender, err := httpclient.NewSender(httpclient.SenderConfig{
//		Method: http.MethodPost,
//		Target: "http://localhost:8080/skiers",
//	}, client, nil)
//	status, err := sender.Send(ctx, body)
//
// Responses with status >= 400 come back as a *runner.HTTPError carrying the
// JSON "message" (or "error") field of the body when present, or the first
// KiB of the body otherwise.
package httpclient
