package diglocator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/xraph/locator"
	"github.com/xraph/locator/locatortest"
)

type database struct {
	dsn string
}

type handler struct {
	Primary *database `name:"primary"`
	Replica *database `name:"replica"`
	Default *database
	Err     error
	Label   string
}

func TestConformance(t *testing.T) {
	locatortest.Run(t, func(t *testing.T) locator.Locator {
		return New()
	}, locatortest.Capabilities{Transient: false})
}

func TestNewWithContainer_RejectsNil(t *testing.T) {
	l, err := NewWithContainer(nil)
	assert.Nil(t, l)
	require.Error(t, err)
	assert.ErrorIs(t, err, locator.ErrNilContainer)

	var argErr *locator.ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "container", argErr.Argument)
}

func TestNewWithContainer_UsesExistingProviders(t *testing.T) {
	c := dig.New()
	require.NoError(t, c.Provide(func() *database { return &database{dsn: "mem"} }))

	l, err := NewWithContainer(c)
	require.NoError(t, err)
	assert.Same(t, c, l.Container())

	db, err := locator.Resolve[*database](l)
	require.NoError(t, err)
	assert.Equal(t, "mem", db.dsn)
}

func TestResolveAll_DirectProvidersJoinWithGroupName(t *testing.T) {
	c := dig.New()
	require.NoError(t, c.Provide(
		func() *database { return &database{dsn: "direct"} },
		dig.Group(GroupName(locator.TypeOf[*database]())),
	))

	l, err := NewWithContainer(c)
	require.NoError(t, err)

	dbs, err := locator.ResolveServices[*database](l)
	require.NoError(t, err)
	require.Len(t, dbs, 1)
	assert.Equal(t, "direct", dbs[0].dsn)
}

func TestInject_HonoursNameTags(t *testing.T) {
	l := New()
	batch := l.Batch()
	require.NoError(t, batch.Register(func() *database { return &database{dsn: "primary"} }, locator.Named("primary")))
	require.NoError(t, batch.Register(func() *database { return &database{dsn: "default"} }))

	existing := &database{dsn: "kept"}
	h := &handler{Replica: existing, Label: "api"}

	require.NoError(t, l.Inject(h))

	require.NotNil(t, h.Primary)
	assert.Equal(t, "primary", h.Primary.dsn)
	require.NotNil(t, h.Default)
	assert.Equal(t, "default", h.Default.dsn)
	assert.Same(t, existing, h.Replica)
	assert.Nil(t, h.Err)
	assert.Equal(t, "api", h.Label)
}

func TestInject_ConstructorFailure(t *testing.T) {
	l := New()
	require.NoError(t, l.Batch().Register(func() (*database, error) {
		return nil, assert.AnError
	}))

	err := l.Inject(&handler{})
	require.Error(t, err)
	assert.True(t, locator.IsResolutionError(err))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestInject_NothingInjectable(t *testing.T) {
	l := New()

	type empty struct {
		hidden *database
	}

	assert.NoError(t, l.Inject(&empty{}))
}

func TestReleaseAndTearDown_AreNoops(t *testing.T) {
	l := New()
	db := &database{dsn: "mem"}

	assert.NoError(t, l.Release(db))
	assert.NoError(t, l.TearDown(&handler{Default: db}))
	assert.Equal(t, "mem", db.dsn)

	require.NoError(t, l.Reset())
	assert.NoError(t, l.Release(db))
	assert.NoError(t, l.TearDown(db))
}

func TestRegister_DuplicateUnnamed(t *testing.T) {
	l := New()
	batch := l.Batch()

	require.NoError(t, batch.Register(func() *database { return &database{} }))
	assert.Error(t, batch.Register(func() *database { return &database{} }))
}

func TestRegister_ResultObjectsSkipGroup(t *testing.T) {
	type result struct {
		dig.Out

		DB *database `name:"analytics"`
	}

	l := New()
	require.NoError(t, l.Batch().Register(func() result {
		return result{DB: &database{dsn: "analytics"}}
	}))

	db, err := locator.ResolveNamed[*database](l, "analytics")
	require.NoError(t, err)
	assert.Equal(t, "analytics", db.dsn)
}

func TestResolve_RunsMiddleware(t *testing.T) {
	var refs []locator.ServiceRef

	l := New(locator.WithMiddleware(&locator.FuncMiddleware{
		BeforeResolveFunc: func(ctx context.Context, ref locator.ServiceRef) error {
			refs = append(refs, ref)
			return nil
		},
	}))
	require.NoError(t, locator.RegisterValue(l.Batch(), &database{}, locator.Named("primary")))

	_, err := locator.ResolveNamed[*database](l, "primary")
	require.NoError(t, err)

	assert.Equal(t, []locator.ServiceRef{{Type: locator.TypeOf[*database](), Key: "primary"}}, refs)
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, "locator:*diglocator.database", GroupName(locator.TypeOf[*database]()))
	assert.Equal(t, "locator:map[string]int", GroupName(locator.TypeOf[map[string]int]()))
	assert.NotContains(t, GroupName(locator.TypeOf[func(int, string)]()), ",")
}

func TestParamObject_Tags(t *testing.T) {
	typ := paramObject(
		paramField{Type: locator.TypeOf[*database](), Name: "primary", Optional: true},
		paramField{Type: locator.TypeOf[[]*database](), Group: "dbs"},
	)

	require.Equal(t, 3, typ.NumField())
	assert.True(t, typ.Field(0).Anonymous)
	assert.Equal(t, "primary", typ.Field(1).Tag.Get("name"))
	assert.Equal(t, "true", typ.Field(1).Tag.Get("optional"))
	assert.Equal(t, "dbs", typ.Field(2).Tag.Get("group"))
}

func TestNewWithContainer_RecoversConstructorPanics(t *testing.T) {
	l, err := NewWithContainer(dig.New())
	require.NoError(t, err)
	require.NoError(t, l.Batch().Register(func() *database { panic("dsn missing") }))

	var resolveErr, injectErr error
	require.NotPanics(t, func() {
		_, resolveErr = locator.Resolve[*database](l)
	})
	require.NotPanics(t, func() {
		injectErr = l.Inject(&handler{})
	})

	assert.True(t, locator.IsResolutionError(resolveErr))
	assert.Contains(t, resolveErr.Error(), "container panicked: dsn missing")
	assert.True(t, locator.IsResolutionError(injectErr))
}
