// Package playback animates the replacement of a document span.
//
// A Player deletes the selected span and types the replacement text into
// the document one character at a time, pausing between characters. While
// it runs, the user may ask it to finish (flush the rest of the text in one
// edit) or to cancel (restore the original text and selection). A
// Controller mediates exactly one such session at a time:
//
//	player := playback.NewPlayer(playback.WithCharDelay(15 * time.Millisecond))
//	ctrl := playback.NewController(player, logger)
//
//	go func() {
//	    <-finishKey
//	    ctrl.RequestFinish()
//	}()
//
//	res, err := ctrl.Start(ctx, buf, buf.Selection(), cleaned)
//
// # Signals
//
// Finish and cancel are cooperative. They are plain flag writes that the
// player polls before every line and every character, so the character
// being inserted when a signal arrives is always inserted before the signal
// takes effect. Cancel wins when both are set. Cancelling the context passed
// to Start behaves like a cancel request.
//
// # Outcomes
//
// Start reports a tagged Result: Completed, Cancelled or Failed. Only
// Failed carries an error; it wraps ErrEditFailed when the document
// rejected an edit mid-session.
package playback
