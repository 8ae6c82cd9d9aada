package service_test

import (
	"testing"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/stretchr/testify/require"
)

func TestNotifier(t *testing.T) {
	n := service.NewNotifier(2)
	require.Empty(t, n.Drain())

	n.Success("one")
	n.Error("two")
	n.Info("three")

	got := n.Drain()
	require.Len(t, got, 2, "oldest dropped past capacity")
	require.Equal(t, "two", got[0].Message)
	require.Equal(t, domain.NotifyError, got[0].Level)
	require.Equal(t, domain.NotifyInfo, got[1].Level)
	require.NotEqual(t, got[0].ID, got[1].ID)

	require.Empty(t, n.Drain())
}
