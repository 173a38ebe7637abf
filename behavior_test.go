package hashid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hashid/codec"
	"github.com/viant/hashid/model"
	"github.com/viant/hashid/service/dao"
	"github.com/viant/hashid/service/dao/record/memory"
	"github.com/viant/hashid/service/event"
	"github.com/viant/hashid/service/table"
	"github.com/viant/scy"
)

var cities = []string{"Foo", "Bar", "NoHashId"}

func newAddresses(t *testing.T, opts ...Option) (*table.Table, *Behavior) {
	ctx := context.Background()
	addresses, err := table.New("addresses", memory.New("id"))
	require.NoError(t, err)
	behavior, err := New(addresses, opts...)
	require.NoError(t, err)
	require.NoError(t, addresses.AddBehavior(behavior))
	for _, city := range cities {
		require.NoError(t, addresses.Save(ctx, model.NewRecord(map[string]interface{}{"city": city})))
	}
	return addresses, behavior
}

func TestBehavior_EncodeID(t *testing.T) {
	addresses, behavior := newAddresses(t)
	assert.Equal(t, "id", behavior.Field())
	assert.Equal(t, "id", addresses.PrimaryKey())

	testCases := []struct {
		description string
		id          int64
		expect      string
	}{
		{description: "first key", id: 1, expect: "jR"},
		{description: "second key", id: 2, expect: "k5"},
		{description: "third key", id: 3, expect: "l5"},
	}
	for _, testCase := range testCases {
		token, err := behavior.EncodeID(testCase.id)
		assert.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, token, testCase.description)
		id, ok := behavior.DecodeHashid(token)
		assert.True(t, ok, testCase.description)
		assert.Equal(t, testCase.id, id, testCase.description)
	}

	for _, token := range []string{"jRx", "", "!!", "l5-3"} {
		_, ok := behavior.DecodeHashid(token)
		assert.False(t, ok, token)
	}
}

func TestBehavior_Codec(t *testing.T) {
	_, behavior := newAddresses(t, WithSalt("pepper"))
	first, err := behavior.Codec()
	require.NoError(t, err)
	second, err := behavior.Codec()
	require.NoError(t, err)
	assert.Same(t, first, second)

	token, err := behavior.EncodeID(1)
	require.NoError(t, err)
	assert.NotEqual(t, "jR", token)
	unsalted, err := New(behavior)
	require.NoError(t, err)
	if id, ok := unsalted.DecodeHashid(token); ok {
		assert.NotEqual(t, int64(1), id, "token from another salt must not decode to the same key")
	}
}

func TestBehavior_Find(t *testing.T) {
	ctx := context.Background()
	addresses, _ := newAddresses(t, WithField("hash"))

	records, err := addresses.All(ctx, addresses.Query())
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, expect := range []string{"jR", "k5", "l5"} {
		assert.Equal(t, expect, records[i].Get("hash"))
		assert.Equal(t, int64(i+1), records[i].Get("id"))
		assert.False(t, records[i].IsDirty("hash"))
	}

	testCases := []struct {
		description string
		token       string
		expectCity  string
		expectFound bool
	}{
		{description: "known token", token: "k5", expectCity: "Bar", expectFound: true},
		{description: "last token", token: "l5", expectCity: "NoHashId", expectFound: true},
		{description: "trailing garbage", token: "jRx"},
		{description: "unknown key", token: "mO"},
	}
	for _, testCase := range testCases {
		query, err := addresses.Find(FinderName, Lookup(testCase.token))
		require.NoError(t, err, testCase.description)
		aRecord, err := addresses.FirstOrFail(ctx, query)
		if !testCase.expectFound {
			assert.True(t, errors.Is(err, dao.ErrNotFound), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectCity, aRecord.Get("city"), testCase.description)
		assert.Equal(t, testCase.token, aRecord.Get("hash"), testCase.description)
	}
}

func TestBehavior_FindEmptyToken(t *testing.T) {
	ctx := context.Background()
	addresses, _ := newAddresses(t, WithField("hash"))
	for _, options := range []model.Options{Lookup(""), {HID: nil}, nil} {
		query, err := addresses.Find(FinderName, options)
		require.NoError(t, err)
		records, err := addresses.All(ctx, query)
		require.NoError(t, err)
		require.Len(t, records, 3, "empty token does not filter")
		assert.Equal(t, "jR", records[0].Get("hash"))
	}
}

func TestBehavior_FindLargeKeys(t *testing.T) {
	ctx := context.Background()
	addresses, err := table.New("addresses", memory.New("id"))
	require.NoError(t, err)
	behavior, err := New(addresses, WithField("hash"))
	require.NoError(t, err)
	require.NoError(t, addresses.AddBehavior(behavior))
	ids := []int64{1 << 53, 1<<53 + 1}
	for _, id := range ids {
		require.NoError(t, addresses.Save(ctx, model.NewRecord(map[string]interface{}{"id": id, "city": "Foo"})))
	}
	for _, id := range ids {
		query, err := addresses.Find(FinderName, LookupAll(mustEncode(t, behavior, id)))
		require.NoError(t, err)
		records, err := addresses.All(ctx, query)
		require.NoError(t, err)
		require.Len(t, records, 1, id)
		assert.Equal(t, id, records[0].Get("id"))
	}
}

func TestBehavior_Save(t *testing.T) {
	ctx := context.Background()
	addresses, behavior := newAddresses(t, WithField("hash"))

	created := model.NewRecord(map[string]interface{}{"city": "Baz"})
	require.NoError(t, addresses.Save(ctx, created))
	expect, err := behavior.EncodeID(4)
	require.NoError(t, err)
	assert.Equal(t, expect, created.Get("hash"))
	assert.Equal(t, int64(4), created.Get("id"))
	assert.False(t, created.IsNew())
	assert.Empty(t, created.Dirty())

	stored, err := addresses.Store().Load(ctx, 4)
	require.NoError(t, err)
	assert.False(t, stored.Has("hash"), "token must not be persisted")

	query, err := addresses.Find(FinderName, Lookup("k5"))
	require.NoError(t, err)
	existing, err := addresses.FirstOrFail(ctx, query)
	require.NoError(t, err)
	existing.Set("city", "Qux")
	require.NoError(t, addresses.Save(ctx, existing))
	assert.Equal(t, "k5", existing.Get("hash"))

	stored, err = addresses.Store().Load(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Qux", stored.Get("city"))
	assert.False(t, stored.Has("hash"))
}

func TestBehavior_WithoutField(t *testing.T) {
	ctx := context.Background()
	addresses, behavior := newAddresses(t, WithoutField())
	assert.Equal(t, "", behavior.Field())

	records, err := addresses.All(ctx, addresses.Query())
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, aRecord := range records {
		assert.Equal(t, aRecord.Original("id"), aRecord.Get("id"))
		assert.False(t, aRecord.Has("hash"))
	}

	query, err := addresses.Find(FinderName, Lookup("k5"))
	require.NoError(t, err)
	records, err = addresses.All(ctx, query)
	require.NoError(t, err)
	assert.Len(t, records, 3, "disabled field leaves the query unchanged")

	created := model.NewRecord(map[string]interface{}{"city": "Baz"})
	require.NoError(t, addresses.Save(ctx, created))
	assert.Equal(t, int64(4), created.Get("id"))
	assert.False(t, behavior.Encode(created))
}

func TestBehavior_PrimaryKeyField(t *testing.T) {
	ctx := context.Background()
	addresses, behavior := newAddresses(t)

	testCases := []struct {
		description string
		where       string
		expectCity  string
		expectFound bool
	}{
		{description: "token literal", where: "id = 'jR'", expectCity: "Foo", expectFound: true},
		{description: "double quoted token", where: `id = "l5"`, expectCity: "NoHashId", expectFound: true},
		{description: "token combined with other criteria", where: "city = 'Bar' AND id = 'k5'", expectCity: "Bar", expectFound: true},
		{description: "raw integer key is not a token", where: "id = 1"},
		{description: "malformed token", where: "id = 'jRx'"},
		{description: "token and mismatching criteria", where: "city = 'Foo' AND id = 'k5'"},
	}
	for _, testCase := range testCases {
		query, err := addresses.Where(testCase.where)
		require.NoError(t, err, testCase.description)
		aRecord, err := addresses.FirstOrFail(ctx, query)
		if !testCase.expectFound {
			assert.True(t, errors.Is(err, dao.ErrNotFound), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectCity, aRecord.Get("city"), testCase.description)
		assert.Equal(t, aRecord.Get("id"), mustEncode(t, behavior, aRecord.Original("id").(int64)), testCase.description)
	}

	aRecord, err := addresses.Get(ctx, "k5")
	require.NoError(t, err)
	assert.Equal(t, "Bar", aRecord.Get("city"))
	assert.Equal(t, "k5", aRecord.Get("id"))

	query, err := addresses.Find(FinderName, Lookup("l5"))
	require.NoError(t, err)
	aRecord, err = addresses.First(ctx, query)
	require.NoError(t, err)
	require.NotNil(t, aRecord)
	assert.Equal(t, "NoHashId", aRecord.Get("city"))

	query, err = addresses.Where("id >= 'k5'")
	require.NoError(t, err)
	records, err := addresses.All(ctx, query)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	created := model.NewRecord(map[string]interface{}{"city": "Baz"})
	require.NoError(t, addresses.Save(ctx, created))
	assert.Equal(t, mustEncode(t, behavior, 4), created.Get("id"))
	assert.Equal(t, int64(4), created.Original("id"))

	created.Set("city", "Quux")
	require.NoError(t, addresses.Save(ctx, created))
	stored, err := addresses.Store().Load(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Quux", stored.Get("city"))
	assert.Equal(t, int64(4), stored.Get("id"))
}

func TestBehavior_FindFirst(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		description string
		mode        FirstMode
		options     model.Options
		expectCount int
		expectErr   error
	}{
		{description: "no reduction", mode: FirstNone, expectCount: 3},
		{description: "first", mode: First, expectCount: 1},
		{description: "first suppressed", mode: First, options: model.Options{NoFirst: true}, expectCount: 3},
		{description: "first with token", mode: First, options: Lookup("k5"), expectCount: 1},
		{description: "first with unknown token", mode: First, options: Lookup("jRx"), expectCount: 0},
		{description: "firstOrFail with unknown token", mode: FirstOrFail, options: Lookup("jRx"), expectErr: dao.ErrNotFound},
		{description: "firstOrFail suppressed", mode: FirstOrFail, options: LookupAll("jRx"), expectCount: 0},
		{description: "firstOrFail with token", mode: FirstOrFail, options: Lookup("jR"), expectCount: 1},
	}
	for _, testCase := range testCases {
		addresses, _ := newAddresses(t, WithField("hash"), WithFindFirst(testCase.mode))
		query, err := addresses.Find(FinderName, testCase.options)
		require.NoError(t, err, testCase.description)
		records, err := addresses.All(ctx, query)
		if testCase.expectErr != nil {
			assert.True(t, errors.Is(err, testCase.expectErr), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Len(t, records, testCase.expectCount, testCase.description)
	}
}

func TestBehavior_Debug(t *testing.T) {
	ctx := context.Background()
	addresses, behavior := newAddresses(t, WithField("hash"), WithDebug(true))

	records, err := addresses.All(ctx, addresses.Query())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "l5-3", records[2].Get("hash"))

	testCases := []struct {
		description string
		token       string
		expectFound bool
	}{
		{description: "debug token", token: "l5-3", expectFound: true},
		{description: "plain token", token: "l5", expectFound: true},
		{description: "mismatching suffix", token: "l5-4"},
	}
	for _, testCase := range testCases {
		query, err := addresses.Find(FinderName, Lookup(testCase.token))
		require.NoError(t, err, testCase.description)
		aRecord, err := addresses.First(ctx, query)
		require.NoError(t, err, testCase.description)
		if !testCase.expectFound {
			assert.Nil(t, aRecord, testCase.description)
			continue
		}
		require.NotNil(t, aRecord, testCase.description)
		assert.Equal(t, "NoHashId", aRecord.Get("city"), testCase.description)
	}

	_, err = New(addresses, WithDebug(true), WithAlphabet("abcdefghijklmnop-"))
	assert.Error(t, err)
	assert.True(t, behavior.Config().Debug)
}

func TestBehavior_Recursive(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		description string
		recursive   bool
	}{
		{description: "associations keep raw keys"},
		{description: "associations are transcoded", recursive: true},
	}
	for _, testCase := range testCases {
		addresses, _ := newAddresses(t, WithField("hash"))
		residents, err := table.New("residents", memory.New("id"))
		require.NoError(t, err)
		behavior, err := New(residents, WithField("hash"), WithRecursive(testCase.recursive))
		require.NoError(t, err)
		require.NoError(t, residents.AddBehavior(behavior))
		for _, addressID := range []int64{2, 2, 3} {
			require.NoError(t, residents.Save(ctx, model.NewRecord(map[string]interface{}{"address_id": addressID})))
		}
		addresses.HasMany("residents", residents, "address_id")

		query, err := addresses.Find(FinderName, Lookup("k5"))
		require.NoError(t, err)
		aRecord, err := addresses.FirstOrFail(ctx, query.Contain("residents"))
		require.NoError(t, err, testCase.description)
		related := aRecord.Related("residents")
		require.Len(t, related, 2, testCase.description)
		for i, resident := range related {
			if !testCase.recursive {
				assert.False(t, resident.Has("hash"), testCase.description)
				continue
			}
			assert.Equal(t, mustEncode(t, behavior, int64(i+1)), resident.Get("hash"), testCase.description)
		}
	}
}

func TestBehavior_Encode(t *testing.T) {
	_, behavior := newAddresses(t, WithField("hash"))
	testCases := []struct {
		description string
		record      *model.Record
		expect      bool
	}{
		{description: "persisted key", record: model.Hydrate(map[string]interface{}{"id": int64(3)}), expect: true},
		{description: "missing key", record: model.NewRecord(map[string]interface{}{"city": "Foo"})},
		{description: "invalid key", record: model.Hydrate(map[string]interface{}{"id": "abc"})},
		{description: "nil record"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, behavior.Encode(testCase.record), testCase.description)
		if testCase.expect {
			assert.Equal(t, "l5", testCase.record.Get("hash"), testCase.description)
			assert.False(t, testCase.record.IsDirty("hash"), testCase.description)
		}
	}
}

func TestBehavior_OnAfterPersist(t *testing.T) {
	ctx := context.Background()
	_, behavior := newAddresses(t, WithField("hash"))
	testCases := []struct {
		description string
		created     bool
		expect      interface{}
	}{
		{description: "created record", created: true, expect: "k5"},
		{description: "updated record"},
	}
	for _, testCase := range testCases {
		aRecord := model.Hydrate(map[string]interface{}{"id": int64(2)})
		anEvent := event.NewEvent(&event.Context{Table: "addresses", EventType: event.TypeAfterPersist},
			&event.AfterPersist{Record: aRecord, Created: testCase.created})
		assert.NoError(t, behavior.OnAfterPersist(ctx, anEvent), testCase.description)
		assert.Equal(t, testCase.expect, aRecord.Get("hash"), testCase.description)
	}
}

func TestNew_Secret(t *testing.T) {
	ctx := context.Background()
	URL := "mem://localhost/hashid/secret/salt.enc"
	resource := scy.NewResource(nil, URL, "blowfish://default")
	require.NoError(t, scy.New().Store(ctx, scy.NewSecret("pepper", resource)))

	addresses, err := table.New("addresses", memory.New("id"))
	require.NoError(t, err)
	behavior, err := New(addresses, WithSaltSecret(URL, "blowfish://default"))
	require.NoError(t, err)
	assert.Equal(t, "pepper", behavior.Config().Salt)

	expected, err := codec.New(&codec.Config{Salt: "pepper"})
	require.NoError(t, err)
	expectToken, err := expected.Encode(7)
	require.NoError(t, err)
	actualToken, err := behavior.EncodeID(7)
	require.NoError(t, err)
	assert.Equal(t, expectToken, actualToken)

	_, err = New(addresses, WithSaltSecret("mem://localhost/hashid/secret/missing.enc", "blowfish://default"))
	assert.Error(t, err)
	_, err = New(addresses, WithSalt("pepper"), WithSaltSecret(URL, "blowfish://default"))
	assert.Error(t, err)
}

func mustEncode(t *testing.T, behavior *Behavior, id int64) string {
	token, err := behavior.EncodeID(id)
	require.NoError(t, err)
	return token
}
