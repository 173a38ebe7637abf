package hashid

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"
)

func TestFirstMode_UnmarshalYAML(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expect      FirstMode
		shouldError bool
	}{
		{description: "bool true", input: "findFirst: true", expect: First},
		{description: "bool false", input: "findFirst: false", expect: FirstNone},
		{description: "first", input: "findFirst: first", expect: First},
		{description: "firstOrFail", input: "findFirst: firstOrFail", expect: FirstOrFail},
		{description: "unsupported", input: "findFirst: last", shouldError: true},
	}
	for _, testCase := range testCases {
		cfg := &Config{}
		err := yaml.Unmarshal([]byte(testCase.input), cfg)
		if testCase.shouldError {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, cfg.FindFirst, testCase.description)
	}
}

func TestConfig_Merge(t *testing.T) {
	base := &Config{Salt: "base", Field: "hash", FinderName: FinderName, FindFirst: First}
	actual := base.Merge(&Config{Salt: "override", Recursive: true, MinLength: 8})
	assert.Equal(t, &Config{Salt: "override", Field: "hash", FinderName: FinderName, FindFirst: First, Recursive: true, MinLength: 8}, actual)
	assert.Equal(t, "base", base.Salt, "merge must not modify the receiver")
	assert.Equal(t, base, base.Merge(nil))
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		config      *Config
		shouldError bool
	}{
		{description: "defaults", config: DefaultConfig()},
		{description: "missing finder name", config: &Config{}, shouldError: true},
		{description: "salt and secret", config: &Config{FinderName: FinderName, Salt: "a", SaltURL: "mem://localhost/salt"}, shouldError: true},
		{description: "negative min length", config: &Config{FinderName: FinderName, MinLength: -1}, shouldError: true},
		{description: "short alphabet", config: &Config{FinderName: FinderName, Alphabet: "abc"}, shouldError: true},
		{description: "unsupported mode", config: &Config{FinderName: FinderName, FindFirst: "last"}, shouldError: true},
	}
	for _, testCase := range testCases {
		err := testCase.config.Validate()
		if testCase.shouldError {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	testCases := []struct {
		description string
		URL         string
		content     string
		expect      *Config
	}{
		{
			description: "nested yaml section",
			URL:         "mem://localhost/hashid/config/app.yaml",
			content:     "hashid:\n  salt: pepper\n  field: hash\n  findFirst: true\n  recursive: true\ndb: ignored\n",
			expect:      &Config{Salt: "pepper", Field: "hash", FindFirst: First, Recursive: true},
		},
		{
			description: "flat json document",
			URL:         "mem://localhost/hashid/config/hashid.json",
			content:     `{"minLength": 6, "findFirst": "firstOrFail", "finderName": "byToken"}`,
			expect:      &Config{MinLength: 6, FindFirst: FirstOrFail, FinderName: "byToken"},
		},
	}
	for _, testCase := range testCases {
		require.NoError(t, fs.Upload(ctx, testCase.URL, file.DefaultFileOsMode, bytes.NewReader([]byte(testCase.content))), testCase.description)
		actual, err := LoadConfig(ctx, testCase.URL)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}

	_, err := LoadConfig(ctx, "mem://localhost/hashid/config/missing.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_Behavior(t *testing.T) {
	ctx := context.Background()
	URL := "mem://localhost/hashid/config/behavior.yaml"
	content := "hashid:\n  field: hash\n  findFirst: firstOrFail\n"
	require.NoError(t, afs.New().Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader([]byte(content))))
	cfg, err := LoadConfig(ctx, URL)
	require.NoError(t, err)

	addresses, behavior := newAddresses(t, WithDefaults(cfg), WithFinderName("byToken"))
	assert.Equal(t, "hash", behavior.Field())
	assert.Equal(t, FirstOrFail, behavior.Config().FindFirst)

	query, err := addresses.Find("byToken", Lookup("k5"))
	require.NoError(t, err)
	records, err := addresses.All(ctx, query)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Bar", records[0].Get("city"))

	_, err = addresses.Find(FinderName, Lookup("k5"))
	assert.Error(t, err, "finder is registered under the configured name only")
}

func TestWithDefaults_Precedence(t *testing.T) {
	file := &Config{Salt: "file", Field: "hash", Recursive: true, Debug: true, FinderName: "byToken"}
	testCases := []struct {
		description string
		options     []Option
		expect      *Config
	}{
		{
			description: "defaults only",
			options:     []Option{WithDefaults(file)},
			expect:      &Config{Salt: "file", Field: "hash", Recursive: true, Debug: true, FinderName: "byToken"},
		},
		{
			description: "option before defaults survives",
			options:     []Option{WithSalt("pepper"), WithDefaults(file)},
			expect:      &Config{Salt: "pepper", Field: "hash", Recursive: true, Debug: true, FinderName: "byToken"},
		},
		{
			description: "options switch booleans off",
			options:     []Option{WithDefaults(file), WithRecursive(false), WithDebug(false)},
			expect:      &Config{Salt: "file", Field: "hash", FinderName: "byToken"},
		},
		{
			description: "later option wins",
			options:     []Option{WithField("a"), WithDefaults(file), WithoutField()},
			expect:      &Config{Salt: "file", Disabled: true, Recursive: true, Debug: true, FinderName: "byToken"},
		},
	}
	for _, testCase := range testCases {
		behavior, err := New(&Behavior{primaryKey: "id"}, testCase.options...)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, behavior.Config(), testCase.description)
	}
}
