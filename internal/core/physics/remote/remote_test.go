package remote

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/action"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/simulated"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/status"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/quic-go/quic-go"
	"github.com/stretchr/testify/require"
)

func TestCodec_Request(t *testing.T) {
	f := wire.NewFrame([]byte{1, 2, 3, 4})
	require.EqualValues(t, 1, f.Attach([]byte{9, 9}))
	require.EqualValues(t, 2, f.Attach([]byte{7}))

	msg, err := encodeRequest(opAct, 42, f)
	require.NoError(t, err)

	req, err := decodeRequest(msg)
	require.NoError(t, err)
	require.Equal(t, opAct, req.op)
	require.EqualValues(t, 42, req.target)
	require.Equal(t, []byte{1, 2, 3, 4}, req.frame.Image)
	require.Equal(t, [][]byte{{9, 9}, {7}}, req.frame.Attachments)
}

func TestCodec_Truncated(t *testing.T) {
	f := wire.NewFrame(nil)
	f.Attach([]byte{1, 2, 3})
	msg, err := encodeRequest(opStatus, 1, f)
	require.NoError(t, err)

	_, err = decodeRequest(msg[:len(msg)-1])
	require.ErrorIs(t, err, ErrMalformed)
	_, err = decodeRequest(msg[:5])
	require.ErrorIs(t, err, ErrMalformed)

	_, _, err = decodeResponse([]byte{1})
	require.ErrorIs(t, err, ErrMalformed)
}

func dialWorld(t *testing.T) (*simulated.World, *Client, *physics.Binding) {
	t.Helper()
	cfg := simulated.DefaultConfig()
	cfg.Gravity = mgl32.Vec3{}
	world := simulated.New(cfg, nil)
	srv := httptest.NewServer(NewServer(world, nil).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + Path
	client, err := Dial(context.Background(), url, 2*time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	binding, err := physics.Bind(client, nil)
	require.NoError(t, err)
	return world, client, binding
}

func TestClient_RopeOverWire(t *testing.T) {
	world, client, binding := dialWorld(t)
	h, err := world.Spawn(simulated.Spec{Class: simulated.ClassRope, Segments: 3})
	require.NoError(t, err)
	e := binding.Entity(h)

	rope := status.NewRope(status.LockEngage)
	ok, err := rope.Fetch(e)
	require.NoError(t, err)
	require.True(t, ok)
	points, err := rope.Points().Copy()
	require.NoError(t, err)
	require.Equal(t, []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}, points)

	require.NoError(t, rope.Release(e))
	require.Zero(t, world.Mapped())
	require.NoError(t, client.Err())
}

func TestClient_ActionsWithAttachments(t *testing.T) {
	world, _, binding := dialWorld(t)
	h, err := world.Spawn(simulated.Spec{Class: simulated.ClassArticulated, Parts: 3})
	require.NoError(t, err)
	e := binding.Entity(h)

	batch, err := action.NewBatchPartsUpdate(
		action.PartUpdate{ID: 0, Position: physics.Some(mgl32.Vec3{1, 0, 0})},
		action.PartUpdate{ID: 2, Position: physics.Some(mgl32.Vec3{0, 1, 0})},
	)
	require.NoError(t, err)
	out, err := batch.Apply(e)
	require.NoError(t, err)
	require.EqualValues(t, 2, out.Value)

	loc := status.NewLocation()
	loc.Part = physics.PartByID(2)
	ok, err := loc.Query(e)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, mgl32.Vec3{0, 1, 0}, loc.Position)

	entries := world.Journal()
	require.Len(t, entries, 1)
	require.Equal(t, wire.ActionBatchPartsUpdate, entries[0].Kind)
}

func TestClient_AliasUnmapped(t *testing.T) {
	_, client, _ := dialWorld(t)

	_, err := client.Alias(1<<32, 12)
	require.ErrorIs(t, err, physics.ErrAddressNotMapped)
	require.NoError(t, client.Err())
}

func TestClient_ClosedConnection(t *testing.T) {
	world, client, binding := dialWorld(t)
	h, err := world.Spawn(simulated.Spec{Class: simulated.ClassRigid})
	require.NoError(t, err)

	require.NoError(t, client.Close())
	out, err := action.NewReset().Apply(binding.Entity(h))
	require.NoError(t, err)
	require.False(t, out.Accepted)
	require.ErrorIs(t, client.Err(), ErrClosed)
}

func dialWorldQUIC(t *testing.T) (*simulated.World, *Server, *Client, *physics.Binding) {
	t.Helper()
	cfg := simulated.DefaultConfig()
	cfg.Gravity = mgl32.Vec3{}
	world := simulated.New(cfg, nil)

	tlsConf, err := ServerTLS("", "")
	require.NoError(t, err)
	ln, err := quic.ListenAddr("127.0.0.1:0", tlsConf, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServer(world, nil)
	done := make(chan error, 1)
	go func() { done <- srv.ServeQUIC(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
		_ = ln.Close()
	})

	client, err := Dial(context.Background(), SchemeQUIC+"://"+ln.Addr().String(), 2*time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	binding, err := physics.Bind(client, nil)
	require.NoError(t, err)
	return world, srv, client, binding
}

func TestClient_RopeOverQUIC(t *testing.T) {
	world, srv, client, binding := dialWorldQUIC(t)
	h, err := world.Spawn(simulated.Spec{Class: simulated.ClassRope, Segments: 2})
	require.NoError(t, err)
	e := binding.Entity(h)

	rope := status.NewRope(status.LockEngage)
	ok, err := rope.Fetch(e)
	require.NoError(t, err)
	require.True(t, ok)
	points, err := rope.Points().Copy()
	require.NoError(t, err)
	require.Equal(t, []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}, points)
	require.EqualValues(t, 1, srv.Connections())

	require.NoError(t, rope.Release(e))
	require.Zero(t, world.Mapped())
	require.NoError(t, client.Err())
}

func TestClient_ActionsOverQUIC(t *testing.T) {
	world, _, client, binding := dialWorldQUIC(t)
	h, err := world.Spawn(simulated.Spec{Class: simulated.ClassArticulated, Parts: 2})
	require.NoError(t, err)
	e := binding.Entity(h)

	batch, err := action.NewBatchPartsUpdate(
		action.PartUpdate{ID: 1, Position: physics.Some(mgl32.Vec3{0, 0, 3})},
	)
	require.NoError(t, err)
	out, err := batch.Apply(e)
	require.NoError(t, err)
	require.EqualValues(t, 1, out.Value)

	_, err = client.Alias(1<<32, 12)
	require.ErrorIs(t, err, physics.ErrAddressNotMapped)

	require.NoError(t, client.Close())
	reset, err := action.NewReset().Apply(e)
	require.NoError(t, err)
	require.False(t, reset.Accepted)
	require.ErrorIs(t, client.Err(), ErrClosed)
}

func TestServerTLS_SelfSigned(t *testing.T) {
	conf, err := ServerTLS("", "")
	require.NoError(t, err)
	require.Len(t, conf.Certificates, 1)
	require.Equal(t, []string{ALPN}, conf.NextProtos)

	_, err = ServerTLS("missing.crt", "missing.key")
	require.Error(t, err)
}

func TestDial_UnsupportedScheme(t *testing.T) {
	_, err := Dial(context.Background(), "tcp://127.0.0.1:1", time.Second, nil)
	require.ErrorContains(t, err, "unsupported scheme")
}
