package transport

import "github.com/google/uuid"

// RequestEvent is fired once the outgoing request has been built.
type RequestEvent struct {
	ID     uuid.UUID
	Method string
	URL    string
	Log    string
}

// ResponseEvent is fired once a response has been received, or once the
// execution failed before one arrived. In the failure case StatusCode is
// zero and Log carries the error message.
type ResponseEvent struct {
	ID         uuid.UUID
	StatusCode int
	Log        string
}

// ResultEvent is fired exactly once per execution, on either the succeeded
// or the failed notification.
type ResultEvent struct {
	ID     uuid.UUID
	Result *Result
}

// Listener receives lifecycle notifications for each execution, in order:
// OnRequestBuilt, OnResponseReceived, then exactly one of OnSucceeded or
// OnFailed. When the request cannot be built, OnRequestBuilt is skipped and
// the error is reported through OnResponseReceived and OnFailed.
type Listener interface {
	OnRequestBuilt(RequestEvent)
	OnResponseReceived(ResponseEvent)
	OnSucceeded(ResultEvent)
	OnFailed(ResultEvent)
}

// Hooks adapts plain callbacks to the Listener interface. Nil callbacks are
// skipped.
type Hooks struct {
	RequestBuilt     func(RequestEvent)
	ResponseReceived func(ResponseEvent)
	Succeeded        func(ResultEvent)
	Failed           func(ResultEvent)
}

func (h Hooks) OnRequestBuilt(e RequestEvent) {
	if h.RequestBuilt != nil {
		h.RequestBuilt(e)
	}
}

func (h Hooks) OnResponseReceived(e ResponseEvent) {
	if h.ResponseReceived != nil {
		h.ResponseReceived(e)
	}
}

func (h Hooks) OnSucceeded(e ResultEvent) {
	if h.Succeeded != nil {
		h.Succeeded(e)
	}
}

func (h Hooks) OnFailed(e ResultEvent) {
	if h.Failed != nil {
		h.Failed(e)
	}
}

type listeners []Listener

func (ls listeners) requestBuilt(e RequestEvent) {
	for _, l := range ls {
		l.OnRequestBuilt(e)
	}
}

func (ls listeners) responseReceived(e ResponseEvent) {
	for _, l := range ls {
		l.OnResponseReceived(e)
	}
}

func (ls listeners) succeeded(e ResultEvent) {
	for _, l := range ls {
		l.OnSucceeded(e)
	}
}

func (ls listeners) failed(e ResultEvent) {
	for _, l := range ls {
		l.OnFailed(e)
	}
}
