package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

/**
Extractor properties:
- well-formed blobs with >= 13 segments recover exactly the literal values
- the scan is a single pass gated on quote state, escape flag, bracket depth
- escaped quotes do not split a segment; commas inside brackets do not split
- extraction is pure and idempotent
*/

const samplePage = `<html><script>
var server_game = new ServerGame();
server_game.initializeServerGame(101,["f5","d6"],"start",0,1,"ongoing","Alice",0,0,0,0,1,"black");
</script></html>`

func TestArguments(t *testing.T) {
	t.Run("recovers every positional value in order", func(t *testing.T) {
		values, err := Arguments(samplePage)

		require.NoError(t, err)
		require.Len(t, values, 13)
		require.Equal(t, int64(101), values[0])
		require.Equal(t, []string{"f5", "d6"}, values[1], "array order must be preserved")
		require.Equal(t, "start", values[2])
		require.Equal(t, int64(0), values[3])
		require.Equal(t, int64(1), values[4])
		require.Equal(t, "ongoing", values[5])
		require.Equal(t, "Alice", values[6])
		require.Equal(t, int64(1), values[11])
		require.Equal(t, "black", values[12])
	})

	t.Run("is idempotent", func(t *testing.T) {
		first, err := Arguments(samplePage)
		require.NoError(t, err)
		second, err := Arguments(samplePage)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("fails without the call site", func(t *testing.T) {
		_, err := Arguments(`<html>no game here</html>`)
		require.ErrorIs(t, err, ErrMarkerNotFound)
	})

	t.Run("fails with too few values", func(t *testing.T) {
		_, err := Arguments(`server_game.initializeServerGame(101,["f5"],"start")`)
		require.ErrorIs(t, err, ErrInsufficientFields)
	})

	t.Run("tolerates whitespace before the argument list", func(t *testing.T) {
		values, err := Arguments(`server_game.initializeServerGame (1,[],"s",0,1,"t","n",0,0,0,0,2,"white")`)
		require.NoError(t, err)
		require.Equal(t, int64(1), values[0])
		require.Equal(t, "white", values[12])
	})
}

func TestScannerGating(t *testing.T) {
	t.Run("escaped quote stays inside one segment", func(t *testing.T) {
		values, err := Arguments(`server_game.initializeServerGame("a\"b",[],"s",0,1,"t","n",0,0,0,0,1,"black")`)
		require.NoError(t, err)
		require.Len(t, values, 13)
		require.Equal(t, `a\"b`, values[0], "internal escaped quote must not split the segment")
	})

	t.Run("comma inside a bracketed array does not split", func(t *testing.T) {
		values, err := Arguments(`server_game.initializeServerGame(7,["f5","a,b","d6"],"s",0,1,"t","n",0,0,0,0,1,"black")`)
		require.NoError(t, err)
		require.Len(t, values, 13)
		require.Equal(t, []string{"f5", "a,b", "d6"}, values[1],
			"bracket-depth gating must keep inner commas")
	})

	t.Run("comma inside a quoted string does not split", func(t *testing.T) {
		values, err := Arguments(`server_game.initializeServerGame("x,y",[],"s",0,1,"t","n",0,0,0,0,1,"black")`)
		require.NoError(t, err)
		require.Len(t, values, 13)
		require.Equal(t, "x,y", values[0])
	})

	t.Run("paren inside a quoted string does not end the call", func(t *testing.T) {
		values, err := Arguments(`server_game.initializeServerGame("a)b",[],"s",0,1,"t","n",0,0,0,0,1,"black")`)
		require.NoError(t, err)
		require.Equal(t, "a)b", values[0])
	})
}

func TestClassification(t *testing.T) {
	t.Run("floats and integers", func(t *testing.T) {
		values, err := Arguments(`server_game.initializeServerGame(1,[],"s",2.5,-3,"t","n",0,0,0,0,1,"black")`)
		require.NoError(t, err)
		require.Equal(t, 2.5, values[3])
		require.Equal(t, int64(-3), values[4])
	})

	t.Run("numeric parse failure passes through verbatim", func(t *testing.T) {
		values, err := Arguments(`server_game.initializeServerGame(null,[],"s",0,1,"t","n",0,0,0,0,1,"black")`)
		require.NoError(t, err)
		require.Equal(t, "null", values[0])
	})

	t.Run("empty move array", func(t *testing.T) {
		values, err := Arguments(`server_game.initializeServerGame(1,[],"s",0,1,"t","n",0,0,0,0,1,"black")`)
		require.NoError(t, err)
		require.Equal(t, []string{}, values[1])
	})
}
