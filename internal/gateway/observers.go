package gateway

import "sync"

// authObservers tracks ObserveAuthState callbacks per token id.
type authObservers struct {
	mu     sync.Mutex
	nextID int
	byTok  map[string]map[int]func(*Identity)
}

func newAuthObservers() *authObservers {
	return &authObservers{byTok: make(map[string]map[int]func(*Identity))}
}

func (o *authObservers) add(tokenID string, fn func(*Identity)) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	if o.byTok[tokenID] == nil {
		o.byTok[tokenID] = make(map[int]func(*Identity))
	}
	o.byTok[tokenID][id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if set, ok := o.byTok[tokenID]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(o.byTok, tokenID)
			}
		}
	}
}

// signal tells every observer of tokenID that the session ended.
func (o *authObservers) signal(tokenID string) {
	o.mu.Lock()
	set := o.byTok[tokenID]
	delete(o.byTok, tokenID)
	o.mu.Unlock()

	for _, fn := range set {
		fn(nil)
	}
}

// observe registers onChange for tokenID before resolving the current
// identity, so a sign-out racing the lookup is never missed. Once nil has
// been delivered no further states reach onChange.
func (o *authObservers) observe(tokenID string, identify func() (Identity, error), onChange func(*Identity)) func() {
	var mu sync.Mutex
	ended := false
	deliver := func(identity *Identity) {
		mu.Lock()
		defer mu.Unlock()
		if ended {
			return
		}
		if identity == nil {
			ended = true
		}
		onChange(identity)
	}

	cancel := o.add(tokenID, deliver)

	identity, err := identify()
	if err != nil {
		cancel()
		deliver(nil)
		return func() {}
	}
	deliver(&identity)
	return cancel
}
