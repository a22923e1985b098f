package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordsFixture = `[
	{
		"id": "p1",
		"name": "Ada",
		"headline": "ML engineer",
		"location": "Bangalore, India",
		"work_experience": [
			{"title": "Engineer", "company": "Google", "description": "Search ranking."}
		],
		"education": [
			{"school": "Stanford University", "degree": "MS", "field_of_study": "Computer Science"}
		]
	},
	{
		"id": "p2",
		"name": "Grace"
	}
]`

func writeFixture(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadRecords(t *testing.T) {
	records, err := loadRecords(writeFixture(t, recordsFixture))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "p1", records[0].ID)
	assert.Equal(t, "Ada", records[0].Name)
	require.Len(t, records[0].WorkExperience, 1)
	assert.Equal(t, "Google", records[0].WorkExperience[0].Company)
	require.Len(t, records[0].Education, 1)
	assert.Equal(t, "Computer Science", records[0].Education[0].Field)

	assert.Equal(t, "p2", records[1].ID)
	assert.Empty(t, records[1].WorkExperience)
}

func TestLoadQueries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"golang engineers in Bangalore\n"+
			"Stanford and MIT grads\n"+
			"\n"+
			"   \n"+
			"frontend folks in SF\n"), 0644))

	queries, err := loadQueries(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"golang engineers in Bangalore",
		"Stanford and MIT grads",
		"frontend folks in SF",
	}, queries)
}

func TestLoadQueries_MissingFile(t *testing.T) {
	_, err := loadQueries(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadRecords_MalformedJSON(t *testing.T) {
	_, err := loadRecords(writeFixture(t, "{not json"))
	assert.Error(t, err)
}

func TestLoadRecords_MissingFile(t *testing.T) {
	_, err := loadRecords(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
