package xlistener

import (
	"net"

	"github.com/stretchr/testify/mock"
)

type mockListener struct {
	mock.Mock
}

func (m *mockListener) Accept() (net.Conn, error) {
	arguments := m.Called()
	first, _ := arguments.Get(0).(net.Conn)
	return first, arguments.Error(1)
}

func (m *mockListener) Close() error {
	return m.Called().Error(0)
}

func (m *mockListener) Addr() net.Addr {
	return m.Called().Get(0).(net.Addr)
}

type mockAddr struct {
	mock.Mock
}

func (m *mockAddr) Network() string {
	return m.Called().String(0)
}

func (m *mockAddr) String() string {
	return m.Called().String(0)
}
