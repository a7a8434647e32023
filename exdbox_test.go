// End-to-end tests running a reader server on a local TCP port and
// querying it through the stub-less client.
package exdbox_test

import (
	"context"
	"log"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/exd-lab/exdbox-go"
	"github.com/exd-lab/exdbox-go/exd"
	"github.com/exd-lab/exdbox-go/exdapi"
	"github.com/exd-lab/exdbox-go/plugin"
	"github.com/exd-lab/exdbox-go/simple"
)

// testServer wraps a reader server for end-to-end testing.
type testServer struct {
	grpcServer *grpc.Server
	listener   net.Listener
	address    string
}

// newTestServer creates and starts a reader server on a random port.
func newTestServer(t *testing.T, config exdbox.ServerConfig) *testServer {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create listener: %v", err)
	}

	debugLevel := slog.LevelDebug
	config.Address = lis.Addr().String()
	config.LogLevel = &debugLevel

	grpcServer := grpc.NewServer(exdbox.ServerOptions(config)...)
	if err := exdbox.NewServer(grpcServer, config); err != nil {
		t.Fatalf("Failed to register server: %v", err)
	}

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	return &testServer{
		grpcServer: grpcServer,
		listener:   lis,
		address:    lis.Addr().String(),
	}
}

// stop gracefully stops the test server.
func (s *testServer) stop() {
	s.grpcServer.GracefulStop()
	s.listener.Close()
}

// connect dials the test server and returns a reader client.
func (s *testServer) connect(t *testing.T, opts ...grpc.CallOption) *exd.Client {
	t.Helper()

	conn, err := grpc.NewClient(s.address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("Failed to dial server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return exd.NewClient(conn, opts...)
}

// measurementSource builds a three-column source: a strictly increasing
// time axis, integer counts and string labels.
func measurementSource(path string, parameters map[string]any) (simple.Source, error) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "time", Type: arrow.PrimitiveTypes.Float64},
		{Name: "count", Type: arrow.PrimitiveTypes.Int32},
		{Name: "label", Type: arrow.BinaryTypes.String},
	}, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()
	builder.Field(0).(*array.Float64Builder).AppendValues([]float64{0, 0.1, 0.2}, nil)
	builder.Field(1).(*array.Int32Builder).AppendValues([]int32{10, 20, 30}, nil)
	builder.Field(2).(*array.StringBuilder).AppendValues([]string{"a", "b", "c"}, nil)
	return simple.RecordSource(builder.NewRecordBatch()), nil
}

func measurementRegistry(t *testing.T) exdbox.ServerConfig {
	t.Helper()
	registry, err := exdbox.NewRegistryBuilder().
		Simple("memory", measurementSource).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return exdbox.ServerConfig{Registry: registry}
}

func TestEndToEnd(t *testing.T) {
	server := newTestServer(t, measurementRegistry(t))
	defer server.stop()
	client := server.connect(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	handle, err := client.Open(ctx, "file:///data/run42.mem", "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if handle.UID == "" {
		t.Fatal("Open() returned empty handle")
	}

	structure, err := client.GetStructure(ctx, &exdapi.StructureRequest{Handle: handle})
	if err != nil {
		t.Fatalf("GetStructure() error = %v", err)
	}
	if structure.Name != "run42.mem" {
		t.Errorf("Name = %q, want %q", structure.Name, "run42.mem")
	}
	if len(structure.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(structure.Groups))
	}
	group := structure.Groups[0]
	if group.NumberOfRows != 3 || group.TotalNumberOfChannels != 3 {
		t.Errorf("group shape = %d rows x %d channels, want 3x3", group.NumberOfRows, group.TotalNumberOfChannels)
	}

	wantChannels := []struct {
		name     string
		dataType exdapi.DataType
	}{
		{"time", exdapi.DTDouble},
		{"count", exdapi.DTLong},
		{"label", exdapi.DTString},
	}
	for i, want := range wantChannels {
		channel := group.Channels[i]
		if channel.Name != want.name || channel.DataType != want.dataType {
			t.Errorf("channel %d = %q/%v, want %q/%v",
				i, channel.Name, channel.DataType, want.name, want.dataType)
		}
	}

	values, err := client.GetValues(ctx, &exdapi.ValuesRequest{
		Handle:     handle,
		GroupID:    0,
		ChannelIDs: []int64{0, 1, 2},
		Start:      0,
		Limit:      3,
	})
	if err != nil {
		t.Fatalf("GetValues() error = %v", err)
	}
	if len(values.Channels) != 3 {
		t.Fatalf("value channels = %d, want 3", len(values.Channels))
	}

	timeValues := values.Channels[0].Values
	if timeValues.DataType != exdapi.DTDouble || len(timeValues.DoubleArray) != 3 {
		t.Errorf("time channel = %v with %d values, want DOUBLE with 3", timeValues.DataType, timeValues.Length())
	}
	countValues := values.Channels[1].Values
	if countValues.DataType != exdapi.DTLong {
		t.Errorf("count channel type = %v, want LONG", countValues.DataType)
	}
	for i, want := range []int32{10, 20, 30} {
		if countValues.LongArray[i] != want {
			t.Errorf("count[%d] = %d, want %d", i, countValues.LongArray[i], want)
		}
	}
	labelValues := values.Channels[2].Values
	if len(labelValues.StringArray) != 3 || labelValues.StringArray[2] != "c" {
		t.Errorf("label channel = %v, want [a b c]", labelValues.StringArray)
	}

	if err := client.Close(ctx, handle); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// The handle is gone after Close.
	_, err = client.GetStructure(ctx, &exdapi.StructureRequest{Handle: handle})
	if status.Code(err) != codes.NotFound {
		t.Errorf("GetStructure() after close status = %v, want NotFound", status.Code(err))
	}

	// Re-closing is a no-op.
	if err := client.Close(ctx, handle); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestEndToEndRowSlicing(t *testing.T) {
	server := newTestServer(t, measurementRegistry(t))
	defer server.stop()
	// Also exercises the zstd wire compressor.
	client := server.connect(t, grpc.UseCompressor("zstd"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	handle, err := client.Open(ctx, "/data/run42.mem", "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer client.Close(ctx, handle)

	// Limit beyond the end clamps to the remaining rows.
	values, err := client.GetValues(ctx, &exdapi.ValuesRequest{
		Handle:     handle,
		ChannelIDs: []int64{1},
		Start:      1,
		Limit:      100,
	})
	if err != nil {
		t.Fatalf("GetValues() error = %v", err)
	}
	got := values.Channels[0].Values.LongArray
	if len(got) != 2 || got[0] != 20 || got[1] != 30 {
		t.Errorf("sliced values = %v, want [20 30]", got)
	}

	// Negative start is rejected.
	_, err = client.GetValues(ctx, &exdapi.ValuesRequest{
		Handle:     handle,
		ChannelIDs: []int64{1},
		Start:      -1,
		Limit:      1,
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("negative start status = %v, want InvalidArgument", status.Code(err))
	}
}

func TestEndToEndAuth(t *testing.T) {
	config := measurementRegistry(t)
	config.Auth = exdbox.BearerAuth(func(token string) (string, error) {
		if token == "secret-api-key" {
			return "user1", nil
		}
		return "", exdbox.ErrUnauthorized
	})

	server := newTestServer(t, config)
	defer server.stop()
	client := server.connect(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Without a token every call is rejected.
	_, err := client.Open(ctx, "/data/run42.mem", "")
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("Open() without token status = %v, want Unauthenticated", status.Code(err))
	}

	// A wrong token is rejected too.
	badCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer nope")
	_, err = client.Open(badCtx, "/data/run42.mem", "")
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("Open() with bad token status = %v, want Unauthenticated", status.Code(err))
	}

	// The valid token opens the source.
	authCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer secret-api-key")
	handle, err := client.Open(authCtx, "/data/run42.mem", "")
	if err != nil {
		t.Fatalf("Open() with token error = %v", err)
	}
	if err := client.Close(authCtx, handle); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewServerInvalidConfig(t *testing.T) {
	grpcServer := grpc.NewServer()

	tests := []struct {
		name   string
		config exdbox.ServerConfig
	}{
		{"nil registry", exdbox.ServerConfig{}},
		{"empty registry", exdbox.ServerConfig{Registry: plugin.NewRegistry()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := exdbox.NewServer(grpcServer, tt.config)
			if err == nil {
				t.Fatal("NewServer() with invalid config succeeded")
			}
		})
	}
}
