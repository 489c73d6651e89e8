package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aeronetPreamble = `AERONET Version 3;
Site: Example_Site
Version 3: AOD Level 2.0
The following data are automatically cloud cleared and quality assured.
Contact: PI=Example
Monthly averages
`

const aodFile = aeronetPreamble + `Month,AOD_500nm,AOD_870nm,440-870_Angstrom_Exponent,NUM_DAYS[AOD_500nm]
2010-JAN,0.310000,0.120000,1.450000,18
2010-FEB,-999.000000,0.100000,1.200000,0
YEAR,0.250000,0.110000,1.300000,200
2010-MAR,0.2,,abc,9.0
2010-JAN,0.990000,0.990000,0.990000,1
`

const sdaFile = aeronetPreamble + `Month,Total_AOD_500nm[tau_a],Fine_Mode_AOD_500nm[tau_f],Coarse_Mode_AOD_500nm[tau_c],FineModeFraction_500nm[eta]
2010-Jan,0.300000,0.220000,0.080000,0.730000
2010-Mar,0.210000,0.090000,0.120000,-999
2010-Apr,0.400000,0.100000,0.300000,0.250000
`

func TestReadOpticalDepth(t *testing.T) {
	rows, stats, err := ReadOpticalDepth(strings.NewReader(aodFile), DefaultAerosolReadOptions())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	jan := rows[0]
	assert.Equal(t, Month{2010, time.January}, jan.Month)
	assert.Equal(t, 0.31, *jan.AOD500)
	assert.Equal(t, 0.12, *jan.AOD870)
	assert.Equal(t, 1.45, *jan.Angstrom)
	assert.Equal(t, 18, *jan.ObsDays)

	feb := rows[1]
	assert.Nil(t, feb.AOD500, "sentinel is absent")
	assert.Equal(t, 0, *feb.ObsDays)

	mar := rows[2]
	assert.Nil(t, mar.AOD870, "blank is absent")
	assert.Nil(t, mar.Angstrom, "non-numeric is absent")
	assert.Equal(t, 9, *mar.ObsDays)

	assert.Equal(t, AerosolStats{Rows: 5, Kept: 3, DroppedNonMonth: 1, DroppedDuplicate: 1}, stats)
}

func TestReadSpectralDeconvolution(t *testing.T) {
	rows, _, err := ReadSpectralDeconvolution(strings.NewReader(sdaFile), DefaultAerosolReadOptions())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 0.22, *rows[0].FineAOD)
	assert.Nil(t, rows[1].FineModeFraction, "numeric sentinel is absent")
	assert.Equal(t, Month{2010, time.April}, rows[2].Month)
}

func TestReadAerosol_MissingColumn(t *testing.T) {
	file := aeronetPreamble + "Month,AOD_500nm\n2010-JAN,0.3\n"

	_, _, err := ReadOpticalDepth(strings.NewReader(file), DefaultAerosolReadOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadAerosol_ShortFile(t *testing.T) {
	_, _, err := ReadOpticalDepth(strings.NewReader("one\ntwo\n"), DefaultAerosolReadOptions())
	assert.Error(t, err)

	_, _, err = ReadOpticalDepth(strings.NewReader(aeronetPreamble), DefaultAerosolReadOptions())
	assert.Error(t, err)
}

func TestReadAerosol_CustomSkip(t *testing.T) {
	file := "# comment\n" + "Month,AOD_500nm,AOD_870nm,440-870_Angstrom_Exponent,NUM_DAYS[AOD_500nm]\n2012-May,0.1,0.1,0.1,3\n"

	rows, _, err := ReadOpticalDepth(strings.NewReader(file), AerosolReadOptions{SkipLines: 1, Sentinels: []string{DefaultAerosolSentinel}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Month{2012, time.May}, rows[0].Month)
}
