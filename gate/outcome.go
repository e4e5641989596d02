package gate

import "github.com/kbukum/authgate/auth"

// Outcome is the gate's decision for one request. It is one of Continue,
// Respond or Redirect.
type Outcome interface {
	outcome() string
}

// Continue lets the request through. Identity is zero for public paths and
// for requests that carried no bearer token.
type Continue struct {
	Identity auth.Identity
}

// Authenticated reports whether a verified identity is attached.
func (c Continue) Authenticated() bool { return !c.Identity.IsZero() }

// Respond short-circuits the request with a status and JSON body.
type Respond struct {
	Status int
	Body   any
}

// Redirect sends the client to Location with 302 Found.
type Redirect struct {
	Location string
}

func (Continue) outcome() string { return "continue" }
func (Respond) outcome() string  { return "respond" }
func (Redirect) outcome() string { return "redirect" }

// Name returns "continue", "respond" or "redirect".
func Name(o Outcome) string { return o.outcome() }
