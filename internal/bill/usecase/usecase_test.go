package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/bill"
	"github.com/fekuna/omnipos-billing-service/internal/bill/dto"
	"github.com/fekuna/omnipos-billing-service/internal/cart"
	inventorydto "github.com/fekuna/omnipos-billing-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) CreateWithItems(ctx context.Context, b *model.BillWithItems) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id string, from, to model.BillStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *mockRepo) FindAll(ctx context.Context, f *dto.BillFilters) ([]model.Bill, int, error) {
	args := m.Called(ctx, f)
	bills, _ := args.Get(0).([]model.Bill)
	return bills, args.Int(1), args.Error(2)
}

func (m *mockRepo) FindByIDWithItems(ctx context.Context, id string) (*model.BillWithItems, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.BillWithItems)
	return b, args.Error(1)
}

type mockInventory struct{ mock.Mock }

func (m *mockInventory) DecreaseStock(ctx context.Context, in *inventorydto.StockChangeInput) (*model.Product, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*model.Product)
	return p, args.Error(1)
}

func (m *mockInventory) Restock(ctx context.Context, in *inventorydto.StockChangeInput) (*model.Product, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*model.Product)
	return p, args.Error(1)
}

func (m *mockInventory) ListLowStock(ctx context.Context, f *inventorydto.LowStockFilters) ([]model.Product, int, error) {
	return nil, 0, nil
}

func (m *mockInventory) ListMovements(ctx context.Context, f *inventorydto.MovementFilters) ([]model.StockMovement, int, error) {
	return nil, 0, nil
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishBillCompleted(ctx context.Context, event *dto.BillCompletedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func shirt() model.Product {
	return model.Product{
		BaseModel:         model.BaseModel{ID: "p-shirt"},
		Name:              "Shirt",
		Price:             decimal.NewFromInt(100),
		Stock:             10,
		LowStockThreshold: 5,
	}
}

func capProduct() model.Product {
	return model.Product{
		BaseModel:          model.BaseModel{ID: "p-cap"},
		Name:               "Cap",
		Price:              decimal.NewFromInt(50),
		DiscountPercentage: decimal.NewFromInt(10),
		SizesStock:         model.SizesStock{"M": 3},
		Stock:              3,
		LowStockThreshold:  5,
	}
}

type CheckoutSuite struct {
	suite.Suite
	ctx       context.Context
	session   *model.Session
	repo      *mockRepo
	inventory *mockInventory
	publisher *mockPublisher
	uc        bill.UseCase
}

func TestCheckoutSuite(t *testing.T) {
	suite.Run(t, new(CheckoutSuite))
}

func (s *CheckoutSuite) SetupTest() {
	s.ctx = context.Background()
	s.session = &model.Session{ID: "s-1", OperatorID: "op-1", Role: model.RoleCashier}
	s.repo = new(mockRepo)
	s.inventory = new(mockInventory)
	s.publisher = new(mockPublisher)
	s.uc = NewBillUseCase(s.repo, s.inventory, s.publisher, decimal.RequireFromString("0.1"), logger.NewNopLogger())
}

func (s *CheckoutSuite) TearDownTest() {
	s.repo.AssertExpectations(s.T())
	s.inventory.AssertExpectations(s.T())
	s.publisher.AssertExpectations(s.T())
}

func (s *CheckoutSuite) input() *dto.CheckoutInput {
	return &dto.CheckoutInput{
		Items: []cart.Item{
			{Product: shirt(), Quantity: 2},
			{Product: capProduct(), Quantity: 1, SelectedSize: "M"},
		},
		Discount:      model.Discount{Type: model.DiscountPercent, Value: decimal.NewFromInt(10)},
		Customer:      dto.Customer{Name: " Ravi ", Phone: "9876543210", Email: "ravi@example.com"},
		PaymentMethod: model.PaymentCard,
	}
}

func (s *CheckoutSuite) expectStatusUpdates() {
	s.repo.On("UpdateStatus", mock.Anything, mock.Anything, model.BillStatusPersisted, model.BillStatusReconciled).Return(nil).Once()
	s.repo.On("UpdateStatus", mock.Anything, mock.Anything, model.BillStatusReconciled, model.BillStatusCompleted).Return(nil).Once()
}

func isLine(productID, size string, qty int) interface{} {
	return mock.MatchedBy(func(in *inventorydto.StockChangeInput) bool {
		return in.ProductID == productID && in.Size == size && in.Quantity == qty && in.OperatorID == "op-1" && in.ReferenceID != ""
	})
}

func (s *CheckoutSuite) TestCheckoutHappyPath() {
	var stored *model.BillWithItems
	s.repo.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*model.BillWithItems")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*model.BillWithItems)
			s.Equal(model.BillStatusPersisted, stored.Status)
		}).
		Return(nil)

	after := shirt()
	after.Stock = 8
	capAfter := capProduct()
	capAfter.SizesStock = model.SizesStock{"M": 2}
	capAfter.Stock = 2
	s.inventory.On("DecreaseStock", mock.Anything, isLine("p-shirt", "", 2)).Return(&after, nil).Once()
	s.inventory.On("DecreaseStock", mock.Anything, isLine("p-cap", "M", 1)).Return(&capAfter, nil).Once()
	s.expectStatusUpdates()
	s.publisher.On("PublishBillCompleted", mock.Anything, mock.MatchedBy(func(e *dto.BillCompletedEvent) bool {
		return e.EventType == dto.EventBillCompleted && e.Payload.Status == model.BillStatusCompleted
	})).Return(nil)

	result, err := s.uc.Checkout(s.ctx, s.session, s.input())
	s.Require().NoError(err)

	b := result.Bill
	s.Same(stored, b)
	s.Equal(model.BillStatusCompleted, b.Status)
	s.Equal("Ravi", b.CustomerName)
	s.Equal("op-1", b.OperatorID)
	s.True(b.Subtotal.Equal(decimal.NewFromInt(245)), b.Subtotal.String())
	s.True(b.Tax.Equal(decimal.RequireFromString("24.5")), b.Tax.String())
	s.True(b.DiscountAmount.Equal(decimal.RequireFromString("24.5")), b.DiscountAmount.String())
	s.True(b.Total.Equal(decimal.NewFromInt(245)), b.Total.String())

	s.Require().Len(b.Items, 2)
	s.Equal("Shirt", b.Items[0].ProductName)
	s.True(b.Items[1].Total.Equal(decimal.NewFromInt(45)))
	s.Equal(b.ID, b.Items[1].BillID)

	s.Empty(result.Warnings)
	s.Require().Len(result.LowStock, 1)
	s.Equal("p-cap", result.LowStock[0].ProductID)
	s.Equal(model.StockStatusLowStock, result.LowStock[0].Status)
}

func (s *CheckoutSuite) TestBillItemsSnapshotProductAtSaleTime() {
	var stored []*model.BillWithItems
	s.repo.On("CreateWithItems", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = append(stored, args.Get(1).(*model.BillWithItems)) }).
		Return(nil).Twice()
	s.inventory.On("DecreaseStock", mock.Anything, mock.Anything).Return(&model.Product{Stock: 50, LowStockThreshold: 5}, nil)
	s.repo.On("UpdateStatus", mock.Anything, mock.Anything, model.BillStatusPersisted, model.BillStatusReconciled).Return(nil).Twice()
	s.repo.On("UpdateStatus", mock.Anything, mock.Anything, model.BillStatusReconciled, model.BillStatusCompleted).Return(nil).Twice()
	s.publisher.On("PublishBillCompleted", mock.Anything, mock.Anything).Return(nil)

	in := s.input()
	first, err := s.uc.Checkout(s.ctx, s.session, in)
	s.Require().NoError(err)

	// the catalog changes after the sale
	in.Items[1].Product.Price = decimal.NewFromInt(80)
	in.Items[1].Product.DiscountPercentage = decimal.Zero
	in.Items[1].Product.Name = "Cap v2"

	second, err := s.uc.Checkout(s.ctx, s.session, in)
	s.Require().NoError(err)

	sold := first.Bill.Items[1]
	s.Equal("Cap", sold.ProductName)
	s.True(sold.ProductPrice.Equal(decimal.NewFromInt(50)), sold.ProductPrice.String())
	s.True(sold.DiscountPercentage.Equal(decimal.NewFromInt(10)), sold.DiscountPercentage.String())
	s.True(sold.Total.Equal(decimal.NewFromInt(45)))

	s.True(second.Bill.Items[1].ProductPrice.Equal(decimal.NewFromInt(80)))
	s.Require().Len(stored, 2)
	s.Same(first.Bill, stored[0])
	s.NotEqual(first.Bill.ID, second.Bill.ID)

	s.repo.On("FindByIDWithItems", s.ctx, first.Bill.ID).Return(stored[0], nil)
	got, err := s.uc.GetBill(s.ctx, first.Bill.ID)
	s.Require().NoError(err)
	s.True(got.Items[1].ProductPrice.Equal(decimal.NewFromInt(50)))
}

func (s *CheckoutSuite) TestCheckoutRequiresSession() {
	_, err := s.uc.Checkout(s.ctx, nil, s.input())
	s.ErrorIs(err, apperror.ErrAuthenticationRequired)
}

func (s *CheckoutSuite) TestCheckoutEmptyCartWritesNothing() {
	in := s.input()
	in.Items = nil

	_, err := s.uc.Checkout(s.ctx, s.session, in)
	s.ErrorIs(err, apperror.ErrEmptyCart)
}

func (s *CheckoutSuite) TestCheckoutValidation() {
	cases := map[string]func(in *dto.CheckoutInput){
		"blank name":     func(in *dto.CheckoutInput) { in.Customer.Name = "  " },
		"blank phone":    func(in *dto.CheckoutInput) { in.Customer.Phone = "" },
		"bad email":      func(in *dto.CheckoutInput) { in.Customer.Email = "not-an-email" },
		"unknown method": func(in *dto.CheckoutInput) { in.PaymentMethod = "cheque" },
		"bad discount":   func(in *dto.CheckoutInput) { in.Discount.Value = decimal.NewFromInt(101) },
		"zero quantity":  func(in *dto.CheckoutInput) { in.Items[0].Quantity = 0 },
	}
	for name, mutate := range cases {
		in := s.input()
		mutate(in)
		_, err := s.uc.Checkout(s.ctx, s.session, in)
		s.True(apperror.IsValidation(err), name)
	}
}

func (s *CheckoutSuite) TestCheckoutDefaultsMissingDiscount() {
	s.repo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)
	s.inventory.On("DecreaseStock", mock.Anything, mock.Anything).Return(&model.Product{Stock: 50, LowStockThreshold: 5}, nil)
	s.expectStatusUpdates()
	s.publisher.On("PublishBillCompleted", mock.Anything, mock.Anything).Return(nil)

	in := s.input()
	in.Discount = model.Discount{}

	result, err := s.uc.Checkout(s.ctx, s.session, in)
	s.Require().NoError(err)
	s.Equal(model.DiscountPercent, result.Bill.DiscountType)
	s.True(result.Bill.DiscountAmount.IsZero())
}

func (s *CheckoutSuite) TestPersistenceFailureSkipsStock() {
	s.repo.On("CreateWithItems", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err := s.uc.Checkout(s.ctx, s.session, s.input())
	s.True(apperror.IsPersistence(err))
	s.inventory.AssertNotCalled(s.T(), "DecreaseStock", mock.Anything, mock.Anything)
}

func (s *CheckoutSuite) TestStockFailureBecomesWarning() {
	s.repo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)
	s.inventory.On("DecreaseStock", mock.Anything, isLine("p-shirt", "", 2)).
		Return(nil, &apperror.InsufficientStockError{ProductID: "p-shirt", Requested: 2, Available: 1}).Once()
	s.inventory.On("DecreaseStock", mock.Anything, isLine("p-cap", "M", 1)).
		Return(&model.Product{BaseModel: model.BaseModel{ID: "p-cap"}, Stock: 20, LowStockThreshold: 5}, nil).Once()
	s.expectStatusUpdates()
	s.publisher.On("PublishBillCompleted", mock.Anything, mock.MatchedBy(func(e *dto.BillCompletedEvent) bool {
		return len(e.Warnings) == 1
	})).Return(nil)

	result, err := s.uc.Checkout(s.ctx, s.session, s.input())
	s.Require().NoError(err)
	s.Require().Len(result.Warnings, 1)
	s.Equal("p-shirt", result.Warnings[0].ProductID)
	s.NotEmpty(result.Warnings[0].Reason)
	s.Equal(model.BillStatusCompleted, result.Bill.Status)
}

func (s *CheckoutSuite) TestReconcileIgnoresClientCancellation() {
	ctx, cancel := context.WithCancel(s.ctx)

	s.repo.On("CreateWithItems", mock.Anything, mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(nil)
	live := mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })
	s.inventory.On("DecreaseStock", live, mock.Anything).Return(&model.Product{Stock: 50, LowStockThreshold: 5}, nil).Twice()
	s.expectStatusUpdates()
	s.publisher.On("PublishBillCompleted", live, mock.Anything).Return(nil)

	result, err := s.uc.Checkout(ctx, s.session, s.input())
	s.Require().NoError(err)
	s.Equal(model.BillStatusCompleted, result.Bill.Status)
}

func (s *CheckoutSuite) TestStatusUpdateFailureIsNotFatal() {
	s.repo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)
	s.inventory.On("DecreaseStock", mock.Anything, mock.Anything).Return(&model.Product{Stock: 50, LowStockThreshold: 5}, nil)
	s.repo.On("UpdateStatus", mock.Anything, mock.Anything, model.BillStatusPersisted, model.BillStatusReconciled).Return(errors.New("timeout"))
	s.publisher.On("PublishBillCompleted", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	result, err := s.uc.Checkout(s.ctx, s.session, s.input())
	s.Require().NoError(err)
	s.Equal(model.BillStatusPersisted, result.Bill.Status)
}

func (s *CheckoutSuite) TestCheckoutWithoutPublisher() {
	uc := NewBillUseCase(s.repo, s.inventory, nil, decimal.Zero, logger.NewNopLogger())
	s.repo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)
	s.inventory.On("DecreaseStock", mock.Anything, mock.Anything).Return(&model.Product{Stock: 50, LowStockThreshold: 5}, nil)
	s.expectStatusUpdates()

	result, err := uc.Checkout(s.ctx, s.session, s.input())
	s.Require().NoError(err)
	s.True(result.Bill.Tax.IsZero())
}

func (s *CheckoutSuite) TestListBillsValidatesFilters() {
	_, _, err := s.uc.ListBills(s.ctx, &dto.BillFilters{PaymentMethod: "cheque"})
	s.True(apperror.IsValidation(err))

	s.repo.On("FindAll", s.ctx, &dto.BillFilters{}).Return([]model.Bill{}, 0, nil)
	_, _, err = s.uc.ListBills(s.ctx, nil)
	s.NoError(err)
}

func (s *CheckoutSuite) TestGetBillNotFound() {
	s.repo.On("FindByIDWithItems", s.ctx, "b-9").Return(nil, nil)

	_, err := s.uc.GetBill(s.ctx, "b-9")
	s.ErrorIs(err, apperror.ErrNotFound)
}
