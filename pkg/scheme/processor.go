package scheme

// Processor is the strategy a scheme kind supplies to its manager. S is the
// read view used for observation, M the mutable view required for writing
// and lifecycle hooks. The manager narrows S to M before calling M methods.
type Processor[S Scheme, M Scheme] interface {
	IsExternalizable(scheme S) bool
	GetState(scheme S) State
	// WriteScheme serializes the scheme. It must not modify the scheme and the
	// returned element must not depend on later changes to it.
	WriteScheme(scheme M) (*Element, error)
	InitScheme(scheme M)
	OnSchemeAdded(scheme M)
	OnSchemeDeleted(scheme M)
	// OnCurrentSchemeSwitched receives the zero S for an absent side.
	OnCurrentSchemeSwitched(oldScheme, newScheme S)
}

// SchemeReader is implemented by processors that can build schemes from
// stored documents. Managers can only load schemes through such processors.
type SchemeReader[M Scheme] interface {
	ReadScheme(element *Element) (M, error)
}

// BaseProcessor carries the default behavior of a processor. Embed it and
// implement WriteScheme; override any other method as needed.
type BaseProcessor[S Scheme, M Scheme] struct{}

// IsExternalizable reports true for schemes with a mutable name.
func (BaseProcessor[S, M]) IsExternalizable(scheme S) bool {
	_, ok := any(scheme).(ExternalizableScheme)
	return ok
}

func (BaseProcessor[S, M]) GetState(S) State {
	return StatePossiblyChanged
}

func (BaseProcessor[S, M]) InitScheme(M) {}

func (BaseProcessor[S, M]) OnSchemeAdded(M) {}

func (BaseProcessor[S, M]) OnSchemeDeleted(M) {}

func (BaseProcessor[S, M]) OnCurrentSchemeSwitched(_, _ S) {}
