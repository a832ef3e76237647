// Package api exposes the bot over JSON HTTP for a chat gateway.
//
// A gateway forwards chat events here: text messages keep the roster
// current, voice messages run the transcription pipeline, and button
// presses select a pending choice. Responses carry the messages the
// gateway should show in the chat.
//
//	h := api.NewHandler(pipeline, selector, store, log)
//	api.Mount(srv.GinEngine(), h, api.Options{Validator: tokens.ValidatorFunc()})
package api
