package unionfind

import (
	"reflect"
	"testing"
)

func TestUnionFind(t *testing.T) {
	u := New[int]()
	u.Union(1, 2)
	u.Union(3, 4)
	u.Add(5)
	u.Union(2, 4)

	tests := []struct {
		a, b int
		want bool
	}{
		{1, 4, true},
		{4, 1, true},
		{1, 5, false},
		{3, 2, true},
		{5, 5, true},
	}
	for _, tt := range tests {
		if got := u.Same(tt.a, tt.b); got != tt.want {
			t.Errorf("Same(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSetsDeterministic(t *testing.T) {
	u := New[string]()
	u.Union("c", "a")
	u.Add("b")
	u.Union("d", "a")

	want := [][]string{{"c", "a", "d"}, {"b"}}
	if got := u.Sets(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sets() = %v, want %v", got, want)
	}
	if u.Len() != 4 {
		t.Errorf("Len() = %d, want 4", u.Len())
	}
}

func TestPartitionsShareSlices(t *testing.T) {
	u := New[int]()
	u.Union(10, 20)
	u.Union(20, 30)
	u.Add(40)

	parts := u.Partitions()
	if len(parts[10]) != 3 || len(parts[40]) != 1 {
		t.Fatalf("unexpected partitions: %v", parts)
	}
	if !reflect.DeepEqual(parts[10], parts[30]) {
		t.Errorf("members of one set should see the same partition: %v vs %v", parts[10], parts[30])
	}
}

func TestLongChainCompresses(t *testing.T) {
	u := New[int]()
	for i := 0; i < 1000; i++ {
		u.Union(i, i+1)
	}
	if !u.Same(0, 1000) {
		t.Error("expected chain ends to be connected")
	}
	if got := len(u.Sets()); got != 1 {
		t.Errorf("len(Sets()) = %d, want 1", got)
	}
}
