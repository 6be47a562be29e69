package opcua

import (
	"context"

	gopcua "github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"
)

// client is the part of *gopcua.Client the endpoint uses.
type client interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	NamespaceArray(ctx context.Context) ([]string, error)
	Read(ctx context.Context, req *ua.ReadRequest) (*ua.ReadResponse, error)
	Write(ctx context.Context, req *ua.WriteRequest) (*ua.WriteResponse, error)
	Subscribe(ctx context.Context, params *gopcua.SubscriptionParameters, notifyCh chan<- *gopcua.PublishNotificationData) (subscription, error)
}

// subscription is the part of *gopcua.Subscription the endpoint uses.
type subscription interface {
	Monitor(ctx context.Context, ts ua.TimestampsToReturn, items ...*ua.MonitoredItemCreateRequest) (*ua.CreateMonitoredItemsResponse, error)
	Unmonitor(ctx context.Context, monitoredItemIDs ...uint32) (*ua.DeleteMonitoredItemsResponse, error)
	Cancel(ctx context.Context) error
}

// clientFactory creates an unconnected client for endpoint.
type clientFactory func(endpoint string, opts ...gopcua.Option) (client, error)

// gopcuaClient narrows the Subscribe result to the subscription interface.
type gopcuaClient struct {
	*gopcua.Client
}

func newGopcuaClient(endpoint string, opts ...gopcua.Option) (client, error) {
	c, err := gopcua.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return gopcuaClient{c}, nil
}

func (c gopcuaClient) Subscribe(ctx context.Context, params *gopcua.SubscriptionParameters, notifyCh chan<- *gopcua.PublishNotificationData) (subscription, error) {
	sub, err := c.Client.Subscribe(ctx, params, notifyCh)
	if err != nil {
		return nil, err
	}
	return sub, nil
}
