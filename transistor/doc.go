// Package transistor provides a client for the Transistor.fm REST API.
//
// Transistor is a podcast hosting platform exposing a JSON:API interface at
// https://api.transistor.fm/v1/. This package issues authenticated requests against it
// and reduces every call to a predictable success/failure record.
//
// The package reads no configuration file or environment variables. Everything it
// needs is passed to NewClient as an API key, a logger and options; the transistor
// command and its config package are a separate layer built on top.
//
// # Architecture
//
// Each call runs four stages in sequence:
//
//   - Builder: verb, path and Args become a URL, headers and an optional JSON body
//   - Executor: the request goes out through resty with a per-call timeout
//   - Interpreter: the raw payload is split into headers and body, the body decoded
//   - Classifier: an ordered rule set decides success and the error message
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := transistor.NewClient(os.Getenv("TRANSISTOR_API_KEY"), logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	out := client.Get(ctx, "episodes", transistor.NewArgs("show_id", "123"))
//	if !out.Success {
//		log.Printf("request failed: %s", out.Error)
//	}
//
//	out = client.Post(ctx, "episodes", transistor.NewArgs(
//		"episode", transistor.NewArgs("show_id", "123", "title", "Hello"),
//	), transistor.Timeout(30*time.Second))
//
// # Results
//
// A call's Result is the decoded body when it is a JSON object or array, even for
// failed calls carrying an API error body, and otherwise the bare success flag:
//
//	if body, ok := out.Result.Body(); ok {
//		// structured data
//	} else if success, _ := out.Result.Success(); success {
//		// 2xx without a JSON body
//	}
//
// # Error Handling
//
// Nothing fails after construction except through the returned Outcome. Outcome.Err
// returns one of:
//
//   - *APIError: non-2xx with a top-level `detail` field, message "<status>: <detail>"
//   - *TimeoutError: elapsed time reached the timeout
//   - *TransportError: no response was received
//   - *UnknownError: anything else, including JSON:API `errors` arrays, which
//     DecodeDocument exposes as Document.Errors
//
// The client also mirrors the most recent call through LastRequest, LastResponse,
// LastError and WasSuccessful. The mirror returns copies; changing them affects
// neither the client nor any Outcome.
package transistor
