package component

import (
	"context"
	"math"

	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"
)

// ProcedureAdd2 is the URI under which add2 is registered.
const ProcedureAdd2 = "com.myapp.add2"

// Number is any type add2 can sum.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Add2 returns x + y.  Overflow wraps as it does for any Go addition.
func Add2[N Number](x, y N) N {
	return x + y
}

// Add2Handler is the InvocationHandler for ProcedureAdd2.  It expects exactly
// two numeric positional arguments.  When both are integers the result is an
// int64, otherwise a float64.  Unsigned values above math.MaxInt64 are summed
// as floats.
func Add2Handler(ctx context.Context, inv *wamp.Invocation) client.InvokeResult {
	if len(inv.Arguments) != 2 {
		return invalidArgument("add2 takes exactly 2 arguments")
	}
	a, okx := asInt64(inv.Arguments[0])
	b, oky := asInt64(inv.Arguments[1])
	if okx && oky {
		return client.InvokeResult{Args: wamp.List{Add2(a, b)}}
	}
	f, okx := asFloat64(inv.Arguments[0])
	g, oky := asFloat64(inv.Arguments[1])
	if !okx || !oky {
		return invalidArgument("add2 arguments must be numbers")
	}
	return client.InvokeResult{Args: wamp.List{Add2(f, g)}}
}

// asInt64 converts any integer kind that fits, but not floats, to int64.
func asInt64(v interface{}) (int64, bool) {
	switch v := v.(type) {
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case float32, float64:
		return 0, false
	}
	return wamp.AsInt64(v)
}

func asFloat64(v interface{}) (float64, bool) {
	if i, ok := asInt64(v); ok {
		return float64(i), true
	}
	switch v := v.(type) {
	case uint64:
		return float64(v), true
	case uint:
		return float64(v), true
	}
	return wamp.AsFloat64(v)
}

func invalidArgument(msg string) client.InvokeResult {
	return client.InvokeResult{
		Args: wamp.List{msg},
		Err:  wamp.ErrInvalidArgument,
	}
}
