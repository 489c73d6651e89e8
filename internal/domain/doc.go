// Package domain models upper-air radiosonde soundings and AERONET aerosol
// records and the monthly/seasonal metrics derived from them.
//
// # Sounding Source
//
// Soundings come from the NOAA Integrated Global Radiosonde Archive (IGRA v2)
// station data files, e.g. USM00072403-data.txt. Each sounding is a header
// line followed by exactly NUMLEV level lines. Fields sit at fixed byte
// offsets (zero-based, end-exclusive):
//
//	Header ("#" in column 0):
//	  station   1-12   e.g. "USM00072403"
//	  year     13-17
//	  month    18-20
//	  day      21-23
//	  hour     24-26   99 = missing; anything above 23 is normalized to 0
//	  numlev   32-36
//
//	Level:
//	  lvltyp1   0-1    major level type (1 standard, 2 other, 3 non-pressure)
//	  press     9-15   Pa
//	  gph      16-21   m
//	  temp     22-27   tenths of °C
//	  rh       28-33   tenths of %
//
// The offsets live in one place, [HeaderSchema] and [LevelSchema], and are
// consumed by the generic [FixedWidth] decoder.
//
// Missing values:
//
//	-9999 means missing, -8888 means removed by quality assurance. Both, and
//	blank fields, decode as absent (nil), never as zero.
//
// Malformed headers:
//
//	A header without a usable year, month or day still owns its NUMLEV lines.
//	The parser consumes them so the next read lands on the following header,
//	then drops the block. A block cut short by end of file ends quietly.
//
// # Stability Metric
//
// Potential temperature uses the dry-air Poisson relation
//
//	θ = (T + 273.15) · (1000 / p)^0.2854
//
// and the inversion gradient of a sounding is θ(700 hPa) − θ(925 hPa). A
// sounding is kept only when both levels carry a temperature. Levels are
// looked up by pressure rounded to the nearest hPa; within one sounding a
// later level with the same rounded pressure replaces an earlier one.
//
// # Aerosol Source
//
// AERONET monthly Version 3 Level 2.0 products: the direct-sun optical depth
// file (*.lev20) and the spectral deconvolution (SDA, *.ONEILL_lev20) file.
// Both are comma separated with six metadata lines ahead of the column header.
// The Month column carries tokens such as "2010-JAN"; rows without such a
// token are header or footer noise and are dropped. -999.000000 is missing.
//
// # Time Keys
//
// Monthly metrics use the plain calendar month ([Month], "2006-01").
// Seasonal metrics use meteorological seasons labelled "YYYY-SSS" where a
// December sounding belongs to the following year's DJF. The two conventions
// differ on purpose and are not reconciled.
package domain
