package internal

import (
	"reflect"
	"testing"
)

func offsets(r *Region) []int {
	var got []int
	r.Walk(func(i int, off int) {
		if i != len(got) {
			panic("positions out of order")
		}
		got = append(got, off)
	})
	return got
}

func TestWalkContiguous(t *testing.T) {
	shape := []uint64{3, 4}
	r := NewRegion(shape, []uint64{1, 1}, []uint64{2, 2}, nil)
	if r.Len() != 4 {
		t.Error("wrong length", r.Len())
		return
	}
	exp := []int{5, 6, 9, 10}
	got := offsets(r)
	if !reflect.DeepEqual(got, exp) {
		t.Error("got", got, "expected", exp)
	}
}

func TestWalkStrided(t *testing.T) {
	shape := []uint64{10}
	got := offsets(NewRegion(shape, []uint64{0}, []uint64{5}, []int64{2}))
	exp := []int{0, 2, 4, 6, 8}
	if !reflect.DeepEqual(got, exp) {
		t.Error("got", got, "expected", exp)
	}

	got = offsets(NewRegion(shape, []uint64{9}, []uint64{4}, []int64{-3}))
	exp = []int{9, 6, 3, 0}
	if !reflect.DeepEqual(got, exp) {
		t.Error("got", got, "expected", exp)
	}
}

func TestWalk3D(t *testing.T) {
	shape := []uint64{2, 3, 4}
	r := NewRegion(shape, []uint64{1, 2, 3}, []uint64{2, 3, 2}, []int64{-1, -1, -2})
	exp := []int{23, 21, 19, 17, 15, 13, 11, 9, 7, 5, 3, 1}
	got := offsets(r)
	if !reflect.DeepEqual(got, exp) {
		t.Error("got", got, "expected", exp)
	}
}

func TestWalkScalar(t *testing.T) {
	got := offsets(NewRegion(nil, nil, nil, nil))
	if !reflect.DeepEqual(got, []int{0}) {
		t.Error("got", got)
	}
}

func TestWalkEmpty(t *testing.T) {
	got := offsets(NewRegion([]uint64{3}, []uint64{0}, []uint64{0}, nil))
	if got != nil {
		t.Error("got", got)
	}
}

func TestWithin(t *testing.T) {
	shape := []uint64{5, 5}
	tests := []struct {
		r    *Region
		want bool
	}{
		{NewRegion(shape, []uint64{0, 0}, []uint64{5, 5}, nil), true},
		{NewRegion(shape, []uint64{1, 0}, []uint64{5, 5}, nil), false},
		{NewRegion(shape, []uint64{4, 4}, []uint64{5, 5}, []int64{-1, -1}), true},
		{NewRegion(shape, []uint64{3, 4}, []uint64{5, 1}, []int64{-1, 1}), false},
		{NewRegion(shape, []uint64{0, 0}, []uint64{3, 1}, []int64{2, 0}), true},
		{NewRegion(shape, []uint64{0}, []uint64{1}, nil), false},
		{NewRegion(shape, []uint64{5, 0}, []uint64{1, 1}, nil), false},
		// large enough to wrap if multiplied out
		{NewRegion(shape, []uint64{0, 0}, []uint64{2, 1}, []int64{1 << 62, 1}), false},
		{NewRegion(shape, []uint64{4, 0}, []uint64{1 << 40, 1}, []int64{-1, 1}), false},
	}
	for i, tt := range tests {
		if got := tt.r.Within(shape); got != tt.want {
			t.Error(i, "got", got, "expected", tt.want)
		}
	}
}
