package posv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls any method of the POS services with plain Go values.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call encodes req, invokes service/method and decodes the reply into resp when resp is not nil.
func (c *Client) Call(ctx context.Context, service, method string, req, resp interface{}, opts ...grpc.CallOption) error {
	if req == nil {
		req = map[string]interface{}{}
	}
	in, err := Encode(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(service, method), in, out, opts...); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return Decode(out, resp)
}
