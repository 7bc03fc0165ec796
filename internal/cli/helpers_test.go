package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it printed to
// stdout. Flag values are reset first since cobra keeps them between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PBIMODEL_NON_INTERACTIVE", "1")
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newProject scaffolds a project named sales and returns its directory.
func newProject(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "sales")
	_, err := execute(t, "init", dir)
	require.NoError(t, err)
	return dir
}

const ordersColumns = `Row_ID|int64|count|Row ID
Region|string|none|Region
`

const peopleColumns = `Region (People)|string|none|Region
`

const datasourceXML = `<?xml version='1.0' encoding='utf-8' ?>
<datasource formatted-name='Superstore' inline='true'>
  <connection class='federated'>
    <named-connections>
      <named-connection caption='sql01' name='sqlserver.0abc'>
        <connection class='sqlserver' dbname='Superstore' server='sql01' />
      </named-connection>
    </named-connections>
    <relation join='inner' type='join'>
      <relation connection='sqlserver.0abc' name='Orders' table='[dbo].[Orders]' type='table' />
      <relation connection='sqlserver.0abc' name='People' table='[dbo].[People]' type='table' />
    </relation>
    <metadata-records>
      <metadata-record class='column'>
        <remote-name>Row_ID</remote-name>
        <local-name>[Row_ID]</local-name>
        <parent-name>[Orders]</parent-name>
        <local-type>integer</local-type>
      </metadata-record>
      <metadata-record class='column'>
        <remote-name>Region</remote-name>
        <local-name>[Region]</local-name>
        <parent-name>[Orders]</parent-name>
        <local-type>string</local-type>
      </metadata-record>
      <metadata-record class='column'>
        <remote-name>discount</remote-name>
        <local-name>[discount]</local-name>
        <parent-name>[Orders]</parent-name>
        <local-type>real</local-type>
      </metadata-record>
      <metadata-record class='column'>
        <remote-name>Region</remote-name>
        <local-name>[Region (People)]</local-name>
        <parent-name>[People]</parent-name>
        <local-type>string</local-type>
      </metadata-record>
    </metadata-records>
  </connection>
  <object-graph>
    <objects>
      <object caption='Orders' id='Orders_1' />
      <object caption='People' id='People_2' />
    </objects>
    <relationships>
      <relationship>
        <expression op='='>
          <expression op='[Region]' />
          <expression op='[Region (People)]' />
        </expression>
        <first-end-point object-id='Orders_1' />
        <second-end-point object-id='People_2' />
      </relationship>
    </relationships>
  </object-graph>
</datasource>
`
