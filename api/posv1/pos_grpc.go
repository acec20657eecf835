package posv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	AuthServiceName      = "omnipos.pos.v1.AuthService"
	ProductServiceName   = "omnipos.pos.v1.ProductService"
	InventoryServiceName = "omnipos.pos.v1.InventoryService"
	CartServiceName      = "omnipos.pos.v1.CartService"
	BillingServiceName   = "omnipos.pos.v1.BillingService"
)

func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

type UnaryFunc func(context.Context, *structpb.Struct) (*structpb.Struct, error)

func method(service, name string, pick func(srv interface{}) UnaryFunc) grpc.MethodDesc {
	fullMethod := FullMethod(service, name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			call := pick(srv)
			if interceptor == nil {
				return call(ctx, in)
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, handler)
		},
	}
}

// AuthService

type AuthServiceServer interface {
	SignIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignOut(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method(AuthServiceName, "SignIn", func(s interface{}) UnaryFunc { return s.(AuthServiceServer).SignIn }),
		method(AuthServiceName, "SignOut", func(s interface{}) UnaryFunc { return s.(AuthServiceServer).SignOut }),
		method(AuthServiceName, "GetSession", func(s interface{}) UnaryFunc { return s.(AuthServiceServer).GetSession }),
	},
	Metadata: "omnipos/pos/v1/pos.proto",
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// ProductService

type ProductServiceServer interface {
	CreateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var ProductService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ProductServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method(ProductServiceName, "CreateProduct", func(s interface{}) UnaryFunc { return s.(ProductServiceServer).CreateProduct }),
		method(ProductServiceName, "GetProduct", func(s interface{}) UnaryFunc { return s.(ProductServiceServer).GetProduct }),
		method(ProductServiceName, "ListProducts", func(s interface{}) UnaryFunc { return s.(ProductServiceServer).ListProducts }),
		method(ProductServiceName, "UpdateProduct", func(s interface{}) UnaryFunc { return s.(ProductServiceServer).UpdateProduct }),
		method(ProductServiceName, "DeleteProduct", func(s interface{}) UnaryFunc { return s.(ProductServiceServer).DeleteProduct }),
	},
	Metadata: "omnipos/pos/v1/pos.proto",
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductService_ServiceDesc, srv)
}

// InventoryService

type InventoryServiceServer interface {
	Restock(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListLowStock(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMovements(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method(InventoryServiceName, "Restock", func(s interface{}) UnaryFunc { return s.(InventoryServiceServer).Restock }),
		method(InventoryServiceName, "ListLowStock", func(s interface{}) UnaryFunc { return s.(InventoryServiceServer).ListLowStock }),
		method(InventoryServiceName, "ListMovements", func(s interface{}) UnaryFunc { return s.(InventoryServiceServer).ListMovements }),
	},
	Metadata: "omnipos/pos/v1/pos.proto",
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}

// CartService

type CartServiceServer interface {
	GetCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateQuantity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Clear(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApplyDiscount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveDiscount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Checkout(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var CartService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CartServiceName,
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method(CartServiceName, "GetCart", func(s interface{}) UnaryFunc { return s.(CartServiceServer).GetCart }),
		method(CartServiceName, "AddItem", func(s interface{}) UnaryFunc { return s.(CartServiceServer).AddItem }),
		method(CartServiceName, "UpdateQuantity", func(s interface{}) UnaryFunc { return s.(CartServiceServer).UpdateQuantity }),
		method(CartServiceName, "RemoveItem", func(s interface{}) UnaryFunc { return s.(CartServiceServer).RemoveItem }),
		method(CartServiceName, "Clear", func(s interface{}) UnaryFunc { return s.(CartServiceServer).Clear }),
		method(CartServiceName, "ApplyDiscount", func(s interface{}) UnaryFunc { return s.(CartServiceServer).ApplyDiscount }),
		method(CartServiceName, "RemoveDiscount", func(s interface{}) UnaryFunc { return s.(CartServiceServer).RemoveDiscount }),
		method(CartServiceName, "Checkout", func(s interface{}) UnaryFunc { return s.(CartServiceServer).Checkout }),
	},
	Metadata: "omnipos/pos/v1/pos.proto",
}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&CartService_ServiceDesc, srv)
}

// BillingService

type BillingServiceServer interface {
	ListBills(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBill(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RenderReceipt(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SendReceipt(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var BillingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: BillingServiceName,
	HandlerType: (*BillingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method(BillingServiceName, "ListBills", func(s interface{}) UnaryFunc { return s.(BillingServiceServer).ListBills }),
		method(BillingServiceName, "GetBill", func(s interface{}) UnaryFunc { return s.(BillingServiceServer).GetBill }),
		method(BillingServiceName, "RenderReceipt", func(s interface{}) UnaryFunc { return s.(BillingServiceServer).RenderReceipt }),
		method(BillingServiceName, "SendReceipt", func(s interface{}) UnaryFunc { return s.(BillingServiceServer).SendReceipt }),
	},
	Metadata: "omnipos/pos/v1/pos.proto",
}

func RegisterBillingServiceServer(s grpc.ServiceRegistrar, srv BillingServiceServer) {
	s.RegisterService(&BillingService_ServiceDesc, srv)
}
