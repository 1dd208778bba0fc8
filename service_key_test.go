package locator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/locator"
	"github.com/xraph/locator/golobbylocator"
)

func TestServiceKey_BasicUsage(t *testing.T) {
	l := golobbylocator.New()

	var TestKey = locator.NewServiceKey[*testService]("test")

	err := locator.RegisterWithKey(l.Batch(), TestKey, func() (*testService, error) {
		return &testService{value: "hello"}, nil
	}, locator.Singleton())
	require.NoError(t, err)

	svc, err := locator.ResolveWithKey(l, TestKey)
	require.NoError(t, err)
	assert.Equal(t, "hello", svc.value)

	// The key does not register the unnamed binding
	_, err = locator.Resolve[*testService](l)
	assert.Error(t, err)
}

func TestServiceKey_DistinguishesRegistrations(t *testing.T) {
	l := golobbylocator.New()

	primary := locator.NewServiceKey[*testService]("primary")
	replica := locator.NewServiceKey[*testService]("replica")

	require.NoError(t, locator.RegisterWithKey(l.Batch(), primary, func() *testService {
		return &testService{value: "primary"}
	}))
	require.NoError(t, locator.RegisterWithKey(l.Batch(), replica, func() *testService {
		return &testService{value: "replica"}
	}))

	assert.Equal(t, "primary", locator.MustWithKey(l, primary).value)
	assert.Equal(t, "replica", locator.MustWithKey(l, replica).value)
}

func TestServiceKey_MustWithKeyPanics(t *testing.T) {
	l := golobbylocator.New()

	var TestKey = locator.NewServiceKey[*testService]("test")

	assert.Panics(t, func() {
		locator.MustWithKey(l, TestKey)
	})
}

func TestServiceKey_NameAndRef(t *testing.T) {
	key := locator.NewServiceKey[*testService]("test")

	assert.Equal(t, "test", key.Name())
	assert.Equal(t, locator.ServiceRef{Type: locator.TypeOf[*testService](), Key: "test"}, key.Ref())
	assert.Equal(t, "*locator_test.testService[key=test]", key.Ref().String())
}
