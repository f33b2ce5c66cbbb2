// Package botstats reports chat bot usage statistics to a stats listing
// service and reads them back.
//
// A Client accumulates command invocations and active users between
// submissions. SubmitStats attaches the configured host metrics, posts the
// payload and, on success, clears the accumulated usage. Outcomes of the
// HTTP exchange are delivered to handlers registered with OnPostStats and
// OnError; SubmitStats itself only fails for invalid input or when no
// response could be obtained.
//
//	client, err := botstats.New(key, botID, botstats.Options{PostCPUStatistics: true}, logger)
//	if err != nil {
//		return err
//	}
//	client.OnError(func(ctx context.Context, err error) {
//		logger.Warn("stats rejected", "error", err)
//	})
//	client.RecordCommand("ping", userID)
//	err = client.SubmitStats(ctx, botstats.SubmitInput{GuildsCount: 12, UsersCount: 340})
package botstats

// Version is the library version sent in the User-Agent header.
const Version = "0.3.0"
