package sinks

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mysqlsizes/mysqlsizes/pkg/config"
	"github.com/mysqlsizes/mysqlsizes/pkg/core"
)

func TestGraphiteSinkWritesPlaintextLines(t *testing.T) {
	assert := assert.New(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	lines := make(chan string, 4)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	sink := NewGraphiteSink(ln.Addr().String(), time.Second)
	defer sink.Close()

	ts := time.Unix(1500000000, 0)
	err = sink.Send([]core.MetricPoint{
		core.NewPoint("coll", "s1", "app", "users", core.MetricTableRows, 100, ts),
		core.NewPoint("coll", "s1", "app", "users", core.MetricDataLength, 2048, ts),
	})
	require.NoError(t, err)

	assert.Equal("servers.coll.mysql.s1.size.app.users.table_rows 100 1500000000", <-lines)
	assert.Equal("servers.coll.mysql.s1.size.app.users.data_length 2048 1500000000", <-lines)
}

func TestGraphiteSinkEmptyBatchNoDial(t *testing.T) {
	// No listener exists on this address; an empty Send must not dial.
	sink := NewGraphiteSink("127.0.0.1:1", time.Second)
	assert.NoError(t, sink.Send(nil))
	assert.NoError(t, sink.Close())
}

func TestGraphiteSinkDialFailure(t *testing.T) {
	sink := NewGraphiteSink("127.0.0.1:1", 100*time.Millisecond)
	err := sink.Send([]core.MetricPoint{
		core.NewPoint("coll", "", "a", "b", core.MetricTableRows, 1, time.Now()),
	})
	assert.Error(t, err)
}

func TestNewSinkSelection(t *testing.T) {
	assert := assert.New(t)

	// Console is the default.
	sink, err := New(sinkConfig("", "", ""))
	require.NoError(t, err)
	assert.IsType(ConsoleSink{}, sink)

	sink, err = New(sinkConfig("graphite", "localhost:2003", "10s"))
	require.NoError(t, err)
	assert.IsType(&GraphiteSink{}, sink)

	_, err = New(sinkConfig("graphite", "", "10s"))
	assert.Error(err)

	_, err = New(sinkConfig("kafka", "", ""))
	assert.Error(err)
}

func sinkConfig(typ, addr, timeout string) config.SinkConfig {
	return config.SinkConfig{Type: typ, Address: addr, Timeout: timeout}
}
