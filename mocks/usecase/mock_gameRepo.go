package usecase

import (
	context "context"

	entity "github.com/rocketscienceinc/tictactoe/internal/entity"
	mock "github.com/stretchr/testify/mock"
)

// MockgameRepo is a mockery-style expecter mock for the gameRepo type
type MockgameRepo struct {
	mock.Mock
}

type MockgameRepo_Expecter struct {
	mock *mock.Mock
}

func (_m *MockgameRepo) EXPECT() *MockgameRepo_Expecter {
	return &MockgameRepo_Expecter{mock: &_m.Mock}
}

// CreateOrUpdate provides a mock function with given fields: ctx, game
func (_m *MockgameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	ret := _m.Called(ctx, game)

	if len(ret) == 0 {
		panic("no return value specified for CreateOrUpdate")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *entity.Game) error); ok {
		r0 = rf(ctx, game)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockgameRepo_CreateOrUpdate_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'CreateOrUpdate'
type MockgameRepo_CreateOrUpdate_Call struct {
	*mock.Call
}

// CreateOrUpdate is a helper method to define mock.On call
//   - ctx context.Context
//   - game *entity.Game
func (_e *MockgameRepo_Expecter) CreateOrUpdate(ctx interface{}, game interface{}) *MockgameRepo_CreateOrUpdate_Call {
	return &MockgameRepo_CreateOrUpdate_Call{Call: _e.mock.On("CreateOrUpdate", ctx, game)}
}

func (_c *MockgameRepo_CreateOrUpdate_Call) Run(run func(ctx context.Context, game *entity.Game)) *MockgameRepo_CreateOrUpdate_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*entity.Game))
	})
	return _c
}

func (_c *MockgameRepo_CreateOrUpdate_Call) Return(_a0 error) *MockgameRepo_CreateOrUpdate_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockgameRepo_CreateOrUpdate_Call) RunAndReturn(run func(context.Context, *entity.Game) error) *MockgameRepo_CreateOrUpdate_Call {
	_c.Call.Return(run)
	return _c
}

// DeleteByID provides a mock function with given fields: ctx, id
func (_m *MockgameRepo) DeleteByID(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for DeleteByID")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockgameRepo_DeleteByID_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'DeleteByID'
type MockgameRepo_DeleteByID_Call struct {
	*mock.Call
}

// DeleteByID is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
func (_e *MockgameRepo_Expecter) DeleteByID(ctx interface{}, id interface{}) *MockgameRepo_DeleteByID_Call {
	return &MockgameRepo_DeleteByID_Call{Call: _e.mock.On("DeleteByID", ctx, id)}
}

func (_c *MockgameRepo_DeleteByID_Call) Run(run func(ctx context.Context, id string)) *MockgameRepo_DeleteByID_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockgameRepo_DeleteByID_Call) Return(_a0 error) *MockgameRepo_DeleteByID_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockgameRepo_DeleteByID_Call) RunAndReturn(run func(context.Context, string) error) *MockgameRepo_DeleteByID_Call {
	_c.Call.Return(run)
	return _c
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockgameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetByID")
	}

	var r0 *entity.Game
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*entity.Game, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *entity.Game); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*entity.Game)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockgameRepo_GetByID_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetByID'
type MockgameRepo_GetByID_Call struct {
	*mock.Call
}

// GetByID is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
func (_e *MockgameRepo_Expecter) GetByID(ctx interface{}, id interface{}) *MockgameRepo_GetByID_Call {
	return &MockgameRepo_GetByID_Call{Call: _e.mock.On("GetByID", ctx, id)}
}

func (_c *MockgameRepo_GetByID_Call) Run(run func(ctx context.Context, id string)) *MockgameRepo_GetByID_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockgameRepo_GetByID_Call) Return(_a0 *entity.Game, _a1 error) *MockgameRepo_GetByID_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockgameRepo_GetByID_Call) RunAndReturn(run func(context.Context, string) (*entity.Game, error)) *MockgameRepo_GetByID_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockgameRepo creates a new instance of MockgameRepo. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockgameRepo(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockgameRepo {
	mock := &MockgameRepo{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
