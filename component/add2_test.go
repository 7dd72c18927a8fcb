package component

import (
	"context"
	"math"
	"testing"

	"github.com/gammazero/nexus/v3/wamp"
	"github.com/stretchr/testify/require"
)

func TestAdd2(t *testing.T) {
	require.Equal(t, 5, Add2(2, 3))
	require.Equal(t, 0, Add2(-1, 1))
	require.Equal(t, 2.5, Add2(1.25, 1.25))

	// Overflow wraps.
	require.Equal(t, int64(math.MinInt64), Add2(int64(math.MaxInt64), 1))

	for _, p := range [][2]int64{{0, 0}, {7, -3}, {-100, 42}, {1 << 40, 1 << 41}} {
		require.Equal(t, Add2(p[0], p[1]), Add2(p[1], p[0]), "not commutative")
		require.Equal(t, p[0]+p[1], Add2(p[0], p[1]))
	}
	require.Equal(t, Add2(Add2(1, 2), 3), Add2(1, Add2(2, 3)), "not associative")
}

func invoke(args ...interface{}) (wamp.List, wamp.URI) {
	res := Add2Handler(context.Background(), &wamp.Invocation{Arguments: wamp.List(args)})
	return res.Args, res.Err
}

func TestAdd2HandlerIntegers(t *testing.T) {
	args, errURI := invoke(2, 3)
	require.Empty(t, errURI)
	require.Equal(t, wamp.List{int64(5)}, args)

	args, errURI = invoke(int64(-1), uint8(1))
	require.Empty(t, errURI)
	require.Equal(t, wamp.List{int64(0)}, args)

	args, errURI = invoke(uint64(40), int16(2))
	require.Empty(t, errURI)
	require.Equal(t, wamp.List{int64(42)}, args)
}

func TestAdd2HandlerFloats(t *testing.T) {
	args, errURI := invoke(1.5, 2)
	require.Empty(t, errURI)
	require.Equal(t, wamp.List{3.5}, args)

	args, errURI = invoke(float32(0.5), float64(0.25))
	require.Empty(t, errURI)
	require.Equal(t, wamp.List{0.75}, args)

	// Unsigned values too large for int64 keep their sign.
	args, errURI = invoke(uint64(1<<63), 0)
	require.Empty(t, errURI)
	require.Equal(t, wamp.List{float64(1 << 63)}, args)

	args, errURI = invoke(uint64(math.MaxUint64), uint64(math.MaxInt64))
	require.Empty(t, errURI)
	require.Greater(t, args[0], 0.0)

	// Floats with integral values stay floats.
	args, errURI = invoke(2.0, 3.0)
	require.Empty(t, errURI)
	require.Equal(t, wamp.List{5.0}, args)
}

func TestAdd2HandlerInvalid(t *testing.T) {
	_, errURI := invoke(1)
	require.Equal(t, wamp.ErrInvalidArgument, errURI)

	_, errURI = invoke(1, 2, 3)
	require.Equal(t, wamp.ErrInvalidArgument, errURI)

	_, errURI = invoke("1", 2)
	require.Equal(t, wamp.ErrInvalidArgument, errURI)

	args, errURI := invoke(1, nil)
	require.Equal(t, wamp.ErrInvalidArgument, errURI)
	require.Len(t, args, 1, "expected error message argument")
}
