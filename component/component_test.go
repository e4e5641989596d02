package component

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kbukum/authgate/logger"
)

// fake records its lifecycle calls into a shared journal.
type fake struct {
	name     string
	startErr error
	stopErr  error
	status   HealthStatus
	journal  *[]string
}

func (f *fake) Name() string { return f.name }

func (f *fake) note(event string) {
	if f.journal != nil {
		*f.journal = append(*f.journal, event+" "+f.name)
	}
}

func (f *fake) Start(context.Context) error {
	f.note("start")
	return f.startErr
}

func (f *fake) Stop(context.Context) error {
	f.note("stop")
	return f.stopErr
}

func (f *fake) Health(context.Context) Health {
	return Health{Name: f.name, Status: f.status}
}

type fakeDB struct{ fake }

func (*fakeDB) Describe() Description { return Description{Type: "database", Details: "sqlite"} }

type fakeServer struct{ fake }

func (*fakeServer) Routes() []Route {
	return []Route{{Method: "POST", Path: "/v1/auth/login", Handler: "Handler.Login"}}
}

func registry(t *testing.T, cs ...Component) *Registry {
	t.Helper()
	r := NewRegistry(logger.Nop())
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			t.Fatalf("Register(%s): %v", c.Name(), err)
		}
	}
	return r
}

func TestRegistry_Lifecycle(t *testing.T) {
	var journal []string
	r := registry(t,
		&fake{name: "database", journal: &journal},
		&fake{name: "redis", journal: &journal},
		&fake{name: "http", journal: &journal},
	)
	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatal(err)
	}
	if err := r.StopAll(ctx); err != nil {
		t.Fatal(err)
	}
	if err := r.StopAll(ctx); err != nil {
		t.Fatalf("repeated StopAll = %v", err)
	}

	want := []string{"start database", "start redis", "start http", "stop http", "stop redis", "stop database"}
	if !slices.Equal(journal, want) {
		t.Errorf("journal = %v", journal)
	}
}

func TestRegistry_StartFailureUnwinds(t *testing.T) {
	var journal []string
	refused := errors.New("connection refused")
	r := registry(t,
		&fake{name: "database", journal: &journal},
		&fake{name: "redis", journal: &journal, startErr: refused},
		&fake{name: "http", journal: &journal},
	)

	if err := r.StartAll(context.Background()); !errors.Is(err, refused) {
		t.Fatalf("StartAll = %v", err)
	}
	if want := []string{"start database", "start redis", "stop database"}; !slices.Equal(journal, want) {
		t.Errorf("journal = %v", journal)
	}
}

func TestRegistry_StopErrorsJoined(t *testing.T) {
	errA, errB := errors.New("close a"), errors.New("close b")
	r := registry(t, &fake{name: "a", stopErr: errA}, &fake{name: "b", stopErr: errB})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("StopAll = %v, want both errors", err)
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := registry(t, &fake{name: "database"})
	if err := r.Register(&fake{name: "database"}); err == nil {
		t.Error("duplicate name accepted")
	}
}

func TestRegistry_Introspection(t *testing.T) {
	r := registry(t,
		&fakeServer{fake{name: "http", status: StatusHealthy}},
		&fakeDB{fake{name: "database", status: StatusUnhealthy}},
	)

	health := r.HealthAll(context.Background())
	if len(health) != 2 || health[0].Status != StatusHealthy || health[1].Status != StatusUnhealthy {
		t.Errorf("HealthAll = %v", health)
	}
	if d := r.Descriptions(); len(d) != 1 || d[0].Name != "database" {
		t.Errorf("Descriptions = %v, want one named after the component", d)
	}
	if routes := r.Routes(); len(routes) != 1 || routes[0].Path != "/v1/auth/login" {
		t.Errorf("Routes = %v", routes)
	}
}
