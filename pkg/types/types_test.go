// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*DisambiguationConfig)
		want   string
	}{
		{name: "defaults", modify: func(*DisambiguationConfig) {}},
		{name: "best match", modify: func(c *DisambiguationConfig) { c.Blocking.Mode = BlockBestMatch }},
		{name: "legacy", modify: func(c *DisambiguationConfig) { c.Merge.Mode = MergeLegacy }},
		{name: "threshold bounds", modify: func(c *DisambiguationConfig) { c.Blocking.Threshold = 100 }},
		{name: "threshold high", modify: func(c *DisambiguationConfig) { c.Blocking.Threshold = 101 }, want: "outside [0,100]"},
		{name: "threshold negative", modify: func(c *DisambiguationConfig) { c.Blocking.Threshold = -1 }, want: "outside [0,100]"},
		{name: "block mode", modify: func(c *DisambiguationConfig) { c.Blocking.Mode = "closest" }, want: "unsupported blocking mode"},
		{name: "merge mode", modify: func(c *DisambiguationConfig) { c.Merge.Mode = "" }, want: "unsupported merge mode"},
		{name: "workers", modify: func(c *DisambiguationConfig) { c.Merge.Workers = -2 }, want: "must not be negative"},
		{name: "log format", modify: func(c *DisambiguationConfig) { c.Log.Format = "xml" }, want: "unsupported log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDisambiguationConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestDefaultWorkers(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultWorkers(), 1)
}

func TestFeatureVectorValidate(t *testing.T) {
	tests := []struct {
		name    string
		feature Feature
		value   float64
		wantErr bool
	}{
		{name: "zero", feature: InstitScore, value: 0},
		{name: "one", feature: CoAuthorScore, value: 1},
		{name: "jaccard email", feature: EmailAddrScore, value: 0.5},
		{name: "negative", feature: AuthKWScore, value: -0.1, wantErr: true},
		{name: "above one", feature: FNameScore, value: 1.01, wantErr: true},
		{name: "nan", feature: LNameScore, value: math.NaN(), wantErr: true},
		{name: "inf", feature: LNamePartialScore, value: math.Inf(1), wantErr: true},
		{name: "fractional name flag", feature: BothNameScore, value: 0.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v FeatureVector
			v[tt.feature] = tt.value
			err := v.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var fe *FeatureVectorError
			require.True(t, errors.As(err, &fe), "err = %v", err)
			assert.Equal(t, tt.feature.String(), fe.Feature)
		})
	}
}

func TestFeatureVectorFromSlice(t *testing.T) {
	v, err := FeatureVectorFromSlice([]float64{0.1, 1, 0, 0, 0, 0, 0, 0, 0.9})
	require.NoError(t, err)
	assert.Equal(t, 0.9, v.Get(CoAuthorScore))
	assert.Equal(t, 1.0, v.Map()["BOTH_NAME_SCORE"])

	_, err = FeatureVectorFromSlice([]float64{1, 2})
	var fe *FeatureVectorError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Error(), "got 2 features, want 9")
}

func TestFeatureString(t *testing.T) {
	assert.Equal(t, "INSTIT_SCORE", InstitScore.String())
	assert.Equal(t, "COAUTHOR_SCORE", CoAuthorScore.String())
	assert.Equal(t, "Feature(9)", Feature(FeatureCount).String())
}

func TestPaperYAMLShapes(t *testing.T) {
	src := `wosid: WOS:1
email_address: [a@x.org]
author_address: Union Coll
authors_full:
  - [MAIR]
  - {last: BOYER, first: BC}
`
	var p Paper
	require.NoError(t, yaml.Unmarshal([]byte(src), &p))
	assert.True(t, p.EmailAddress.IsMulti())
	assert.Equal(t, "", p.EmailAddress.Scalar())
	assert.Equal(t, InstituteText, p.AuthorAddress.Shape)
	assert.Equal(t, []AuthorName{{Last: "MAIR"}, {Last: "BOYER", First: "BC"}}, p.AuthorsFull)
	assert.Equal(t, "BOYERBC", p.AuthorsFull[1].Literal())

	out, err := yaml.Marshal(p.AuthorsFull[1])
	require.NoError(t, err)
	assert.Equal(t, "[BOYER, BC]\n", string(out))

	var bad Paper
	assert.Error(t, yaml.Unmarshal([]byte("authors_full: [[A, B, C]]\n"), &bad))
	assert.Error(t, yaml.Unmarshal([]byte("email_address: {a: b}\n"), &bad))
}

func TestEmailListEntriesTrimmed(t *testing.T) {
	var p Paper
	require.NoError(t, yaml.Unmarshal([]byte("email_address: [\" a@x.org \", \"\", b@y.org]\n"), &p))
	assert.True(t, p.EmailAddress.IsMulti())
	assert.Equal(t, []string{"a@x.org", "b@y.org"}, p.EmailAddress.Values())
}

func TestEmailsShape(t *testing.T) {
	assert.True(t, SingleEmail("").IsEmpty())
	assert.False(t, SingleEmail("").IsMulti())
	assert.Equal(t, "a@x.org", SingleEmail("a@x.org").Scalar())

	list := EmailList("a@x.org", "b@y.org")
	vals := list.Values()
	vals[0] = "changed"
	assert.Equal(t, []string{"a@x.org", "b@y.org"}, list.Values())
}

func TestPartitionAndClusters(t *testing.T) {
	p := Partition{Blocks: []Block{
		{Label: "SMITHJ", Members: []string{"SMITHJ", "SMITHJA", "SMYTHJ"}},
		{Label: "MAIRG", Members: []string{"MAIRG"}},
	}}
	b, ok := p.BlockOf("SMITHJA")
	require.True(t, ok)
	assert.Equal(t, "SMITHJ", b.Label)
	_, ok = p.BlockOf("JONESK")
	assert.False(t, ok)
	assert.Equal(t, []string{"MAIRG", "SMITHJ", "SMITHJA", "SMYTHJ"}, p.Literals())
	assert.Len(t, p.Map(), 2)

	c := Clusters{Clusters: []Cluster{
		{Label: "SMITHJ", Block: "SMITHJ", Members: []string{"SMITHJWOS:1", "SMYTHJWOS:2"}},
		{Label: "MAIRG", Block: "MAIRG", Members: []string{"MAIRGWOS:3"}},
	}}
	cl, ok := c.ClusterOf("SMYTHJWOS:2")
	require.True(t, ok)
	assert.Equal(t, "SMITHJ", cl.Label)
	_, ok = c.Get("JONESK")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "SMITHJWOS:1", RecordKey("SMITH", "J", "WOS:1"))
}
