package scheduler

import "sync"

// Manager owns the live variant instances, one per mounted viewer. The
// HTTP layer mounts on first use and unmounts on logout or session end.
type Manager struct {
	store    Store
	notifier Notifier
	opts     Options

	mu       sync.Mutex
	sessions map[uint]Variant
}

func NewManager(store Store, notifier Notifier, opts Options) *Manager {
	return &Manager{
		store:    store,
		notifier: notifier,
		opts:     opts,
		sessions: make(map[uint]Variant),
	}
}

// Mount resolves the viewer's role to a variant and returns the live
// instance, reusing an existing session for the same viewer. Unknown roles
// get an AuthorizationError, never a panic: resolution itself is total.
func (m *Manager) Mount(viewer Claims) (Variant, error) {
	tag := ResolveView(viewer.Role)
	if tag == VariantUnauthorized {
		return nil, &AuthorizationError{Role: viewer.Role}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.sessions[viewer.EmployeeID]; ok {
		if v.Tag() == tag {
			return v, nil
		}
		// Role changed since the last mount: tear the stale instance down
		// so any outstanding fetch on it is discarded on arrival.
		v.Unmount()
	}

	var v Variant
	switch tag {
	case VariantAdmin:
		v = NewAdminVariant(viewer, m.store, m.notifier, m.opts)
	default:
		v = NewEmployeeVariant(viewer, m.store, m.notifier, m.opts)
	}
	m.sessions[viewer.EmployeeID] = v
	return v, nil
}

// Get returns the mounted variant for a viewer, if any.
func (m *Manager) Get(employeeID uint) (Variant, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.sessions[employeeID]
	return v, ok
}

// Unmount tears down the viewer's session. Outstanding fetches resolve
// into the void.
func (m *Manager) Unmount(employeeID uint) {
	m.mu.Lock()
	v, ok := m.sessions[employeeID]
	delete(m.sessions, employeeID)
	m.mu.Unlock()
	if ok {
		v.Unmount()
	}
}
