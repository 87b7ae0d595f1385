package service

// Test IDs - Using meaningful constants instead of magic numbers
const (
	TestGuildID = 100001
	TestUser1ID = 111111
	TestUser2ID = 222222
)

// fakeRand is a deterministic Rand that replays scripted draws in order.
// Intn results are clamped into [0, n) so a scripting mistake cannot
// produce an out-of-range draw.
type fakeRand struct {
	ints   []int
	floats []float64
}

func (f *fakeRand) Intn(n int) int {
	if len(f.ints) == 0 {
		return 0
	}
	v := f.ints[0]
	f.ints = f.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func (f *fakeRand) Float64() float64 {
	if len(f.floats) == 0 {
		return 0
	}
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

// newTestUnitOfWork creates a mock unit of work together with a factory that
// hands it out for TestGuildID.
func newTestUnitOfWork() (*MockUnitOfWorkFactory, *MockUnitOfWork) {
	factory := new(MockUnitOfWorkFactory)
	uow := NewMockUnitOfWork()
	factory.On("CreateForGuild", int64(TestGuildID)).Return(uow)
	return factory, uow
}
