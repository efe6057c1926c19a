package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termxref/internal/config"
)

const fixtureMRCONSO = `C0021400|ENG|P|L0001|PF|S0001|Y|A0001|||D007251|MSH|PT|D007251|Influenza|0|N||
C0021400|ENG|S|L0002|PF|S0002|N|A0002|||D007251|MSH|SY|D007251|Flu|0|N||
C0021400|FRE|S|L0003|PF|S0003|N|A0003|||D007251|MSHFRE|SY|D007251|Grippe|0|N||
C0021400|ENG|P|L0004|PF|S0004|Y|A0004||6142004||SNOMEDCT_US|PT|6142004|Influenza|0|N||
C0021403|ENG|P|L0005|PF|S0005|Y|A0005|||J07BB02|ATC|PT|J07BB02|influenza, inactivated, whole virus|0|N||
C0018681|ENG|P|L0006|PF|S0006|Y|A0006|||D006261|MSH|PT|D006261|Headache|0|N||
C0029235|ENG|P|L0007|PF|S0007|Y|A0007|||D009930|MSH|PT|D009930|Organisms|0|N||
`

const fixtureMRSTY = `C0021400|T047|B2.2.1.2.1|Disease or Syndrome|AT001||
C0018681|T184|A2.2.2|Sign or Symptom|AT002||
C0029235|T001|A1.1|Organism|AT003||
`

const fixtureLabels = `T047|Disease or Syndrome
T184|Sign or Symptom
T001|Organism
`

const fixtureDescriptions = "id\teffectiveTime\tactive\tmoduleId\tconceptId\tlanguageCode\ttypeId\tterm\tcaseSignificanceId\n" +
	"101\t20230131\t1\t900101\t6142004\tsv\t900000000000013009\tInfluensa\t900448\n" +
	"102\t20230131\t0\t900101\t6142004\tsv\t900000000000013009\tGammal Influensa\t900448\n"

const fixtureDrugExport = `<?xml version="1.0" encoding="UTF-8"?>
<export>
  <product id="1">
    <name lang="fi">Fluzone 10ml</name>
    <package><atc code="J07BB02"/></package>
  </product>
  <product id="2">
    <name lang="fi">Mystery 5mg</name>
    <package><atc code="A0"/></package>
    <package><atc code="B0"/></package>
  </product>
</export>`

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	yaml := `
inputs:
  mrconso: ` + write("MRCONSO.RRF", fixtureMRCONSO) + `
  mrsty: ` + write("MRSTY.RRF", fixtureMRSTY) + `
  type_labels: ` + write("labels.txt", fixtureLabels) + `
  snomed_descriptions: ` + write("descriptions.txt", fixtureDescriptions) + `
  drug_export: ` + write("export.xml", fixtureDrugExport) + `
output:
  dir: ` + filepath.Join(dir, "out") + `
filter:
  vocabularies: [MSH, MSHFRE]
pairs:
  languages: [ENG, FRE]
  seed: 42
`

	cfg, err := config.LoadConfig(write("config.yaml", yaml))
	require.NoError(t, err)
	return cfg
}

func TestRunner_Run(t *testing.T) {
	cfg := fixtureConfig(t)
	runner := New(cfg, zerolog.Nop())
	require.NoError(t, runner.Run(context.Background()))

	readLines := func(name string) []string {
		data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, name))
		require.NoError(t, err)
		return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}

	t.Run("concept table", func(t *testing.T) {
		lines := readLines(cfg.Output.ConceptTable)
		content := strings.Join(lines, "\n")

		assert.Equal(t, "cui,name,type_ids,ontologies,name_status", lines[0])
		// MSH names survive the vocabulary filter.
		assert.Contains(t, content, "C0021400,influenza,T047,MSH,Preferred")
		assert.Contains(t, content, "C0021400,flu,T047,MSH,Alternate")
		// SNOMED extension synonym resolved through the code mapping.
		assert.Contains(t, content, "C0021400,influensa,T047,SNOMED_EXT,Alternate")
		// Registry drug name resolved through the classification mapping.
		assert.Contains(t, content, "C0021403,fluzone,,DRUGREG,Preferred")
		// Drug-vocabulary rows join directly even though ATC is not in the
		// vocabulary allow-list. The surface form contains a comma, so the
		// CSV writer quotes it.
		assert.Contains(t, content, `C0021403,"influenza, inactivated, whole virus",,ATC,Preferred`)
		// The excluded semantic type never reaches the output.
		assert.NotContains(t, content, "C0029235")
		assert.NotContains(t, content, "T001")
	})

	t.Run("grouped and normalization outputs", func(t *testing.T) {
		grouped := strings.Join(readLines(cfg.Output.Grouped), "\n")
		assert.Contains(t, grouped, "C0021400,influenza | flu | grippe | influensa")

		norm := strings.Join(readLines(cfg.Output.NormDB), "\n")
		assert.Contains(t, norm, "C0021400\tname:Name:influenza\tname:Name:flu\tname:Name:grippe\tname:Name:influensa\tattr:Type:T047|Disease or Syndrome")
		assert.Contains(t, norm, "C0018681\tname:Name:headache\tattr:Type:T184|Sign or Symptom")
	})

	t.Run("pair output", func(t *testing.T) {
		pairLines := readLines(cfg.Output.Pairs)
		// The C0021400 pool is the merged names plus the allowed-language
		// terminology forms; every line is cui||name1||name2.
		assert.NotEmpty(t, pairLines)
		for _, line := range pairLines {
			parts := strings.Split(line, "||")
			assert.Len(t, parts, 3)
		}
		joined := strings.Join(pairLines, "\n")
		assert.Contains(t, joined, "C0021400||influenza||flu")
	})

	t.Run("run report", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "run_report.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"name": "merge"`)
		assert.Contains(t, string(data), `"status": "ok"`)
	})
}

func TestRunner_MissingLabelAborts(t *testing.T) {
	cfg := fixtureConfig(t)
	require.NoError(t, os.WriteFile(cfg.Inputs.TypeLabels, []byte("T047|Disease or Syndrome\n"), 0o644))

	runner := New(cfg, zerolog.Nop())
	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no label for semantic type")
}
