// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/mock"
	"github.com/MKhiriev/go-key-vault/models"
)

func TestStatusService(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	assert.Equal(t, "1.2.3", v.Status.GetAppVersion(ctx))

	st, err := v.Status.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.VaultStatus{Version: "1.2.3"}, st)

	require.NoError(t, v.Session.Setup(ctx, "pw"))
	require.NoError(t, v.Settings.SetAutoLock(ctx, true))

	st, err = v.Status.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.VaultStatus{
		Version:     "1.2.3",
		Initialized: true,
		Unlocked:    true,
		AutoLock:    true,
	}, st)
}

func TestStatusService_ReportsDegradedDerivations(t *testing.T) {
	v := newTestVault(t)
	kdf := mock.NewMockKeyDeriver(gomock.NewController(t))
	kdf.EXPECT().DegradedCount().Return(int64(3))

	status := NewStatusService(models.NewAppBuildInfo("1.2.3", "", ""), v.Session, v.Master, v.Settings, kdf, logger.Nop())

	st, err := status.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.DegradedDerivations)
	assert.False(t, st.DegradedKey)
}
