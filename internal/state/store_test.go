package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/agenda/internal/api"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	clientes := []api.Cliente{{ID: "1", Nome: "Maria"}, {ID: "2", Nome: "Joao"}}
	agendamentos := []api.Agendamento{{ID: "10", Status: api.StatusPendente}}

	before := time.Now()
	s.Update(clientes, agendamentos, nil)

	snap := s.Snapshot()
	if !snap.HasData {
		t.Fatalf("HasData = false, want true")
	}
	if len(snap.Clientes) != 2 || snap.Clientes[0].Nome != "Maria" {
		t.Fatalf("snapshot clientes = %#v, want 2 items", snap.Clientes)
	}
	if len(snap.Agendamentos) != 1 || snap.Agendamentos[0].ID != "10" {
		t.Fatalf("snapshot agendamentos = %#v, want 1 item", snap.Agendamentos)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Clientes[0].Nome = "changed"
	clientes[1].Nome = "changed"
	snap2 := s.Snapshot()
	if snap2.Clientes[0].Nome != "Maria" || snap2.Clientes[1].Nome != "Joao" {
		t.Fatalf("Snapshot should clone clientes; got %#v", snap2.Clientes)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]api.Cliente{{ID: "1"}}, []api.Agendamento{{ID: "2"}}, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, nil, origErr)

	snap := s.Snapshot()
	if snap.HasData != prev.HasData {
		t.Fatalf("HasData changed on error")
	}
	if len(snap.Clientes) != 1 || snap.Clientes[0].ID != "1" {
		t.Fatalf("clientes changed on error: got %#v want %#v", snap.Clientes, prev.Clientes)
	}
	if len(snap.Agendamentos) != 1 || snap.Agendamentos[0].ID != "2" {
		t.Fatalf("agendamentos changed on error: got %#v want %#v", snap.Agendamentos, prev.Agendamentos)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store = %d failures offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	for i, wantOffline := range []bool{false, true, true} {
		s.Update(nil, nil, errors.New("fail"))
		snap = s.Snapshot()
		if snap.ConsecutiveFailures != i+1 {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i+1)
		}
		if snap.IsOffline() != wantOffline {
			t.Fatalf("IsOffline() after %d failures = %v, want %v", i+1, snap.IsOffline(), wantOffline)
		}
	}

	// Success resets counter
	s.Update(nil, nil, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success = %d failures offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestStore_Reset(t *testing.T) {
	var s Store
	s.Update([]api.Cliente{{ID: "1"}}, nil, nil)
	s.Update(nil, nil, errors.New("fail"))

	s.Reset()
	snap := s.Snapshot()
	if snap.HasData || len(snap.Clientes) != 0 || snap.LastError != nil || snap.ConsecutiveFailures != 0 {
		t.Fatalf("snapshot after Reset = %#v, want zero", snap)
	}
}
