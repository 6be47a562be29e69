package membus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagbridge/tagbridge-go/pkg/address"
	"github.com/tagbridge/tagbridge-go/pkg/bridge"
)

func connected(t *testing.T) (*Bus, *[]bridge.Message) {
	t.Helper()
	b := New()
	var got []bridge.Message
	b.OnMessage(func(topic, body string) {
		got = append(got, bridge.Message{Topic: topic, Payload: body})
	})
	require.NoError(t, b.Connect(context.Background()))
	return b, &got
}

func TestPublishRequiresConnection(t *testing.T) {
	b := New()
	ctx := context.Background()

	assert.ErrorIs(t, b.Publish(ctx, "a/b", "1"), ErrNotConnected)
	assert.ErrorIs(t, b.Subscribe(ctx, "a/#"), ErrNotConnected)
	_, err := b.Inject("a/b", "1")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSubscribeValidatesPattern(t *testing.T) {
	b, _ := connected(t)
	ctx := context.Background()

	assert.ErrorIs(t, b.Subscribe(ctx, "a/#/b"), address.ErrInvalidPattern)
	require.NoError(t, b.Subscribe(ctx, "a/+"))
	require.NoError(t, b.Subscribe(ctx, "a/+"))
	assert.Equal(t, []string{"a/+"}, b.Subscriptions())
}

func TestPublishDeliversOnceToMatchingFilters(t *testing.T) {
	b, got := connected(t)
	ctx := context.Background()
	require.NoError(t, b.Subscribe(ctx, "device1/+/command"))
	require.NoError(t, b.Subscribe(ctx, "device1/#"))

	require.NoError(t, b.Publish(ctx, "device1/1/command", "on"))
	require.NoError(t, b.Publish(ctx, "device2/1/command", "off"))

	assert.Equal(t, []bridge.Message{{Topic: "device1/1/command", Payload: "on"}}, *got)
	assert.Equal(t, []bridge.Message{
		{Topic: "device1/1/command", Payload: "on"},
		{Topic: "device2/1/command", Payload: "off"},
	}, b.Published())
}

func TestPublishRejectsWildcardTopic(t *testing.T) {
	b, _ := connected(t)
	assert.Error(t, b.Publish(context.Background(), "device1/+/status", "1"))
	assert.Empty(t, b.Published())
}

func TestInject(t *testing.T) {
	b, got := connected(t)
	require.NoError(t, b.Subscribe(context.Background(), "device1/+/command"))

	matched, err := b.Inject("device1/5/command", "21.5")
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = b.Inject("device1/5/extra/command", "21.5")
	require.NoError(t, err)
	assert.False(t, matched)

	assert.Equal(t, []bridge.Message{{Topic: "device1/5/command", Payload: "21.5"}}, *got)
	assert.Empty(t, b.Published())
}

func TestInjectWithoutHandler(t *testing.T) {
	b := New()
	require.NoError(t, b.Connect(context.Background()))
	_, err := b.Inject("a", "1")
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestOnPublishListener(t *testing.T) {
	b, _ := connected(t)
	var seen []string
	b.OnPublish(func(m bridge.Message) { seen = append(seen, m.Topic) })

	require.NoError(t, b.Publish(context.Background(), "device1/1/status", "OK"))
	assert.Equal(t, []string{"device1/1/status"}, seen)
}

func TestDisconnectDropsSubscriptions(t *testing.T) {
	b, _ := connected(t)
	ctx := context.Background()
	require.NoError(t, b.Subscribe(ctx, "a/#"))
	require.NoError(t, b.Disconnect(ctx))
	assert.False(t, b.Connected())
	assert.Empty(t, b.Subscriptions())

	b.Reset()
	assert.Empty(t, b.Published())
}
