package session

// View is a destination the user is routed to after an operation.
type View string

const (
	ViewHome    View = "/"
	ViewProfile View = "/profile"
	ViewSuccess View = "/success"
)

type Navigator interface {
	Navigate(v View)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(v View)

func (f NavigatorFunc) Navigate(v View) { f(v) }
