// Package snapshot holds a point-in-time sample of observed values and
// answers quantile and summary-statistic queries against it using the R-7
// linear interpolation method, placing quantile q at position q*(n+1) of the
// sorted sample, and Welford's online algorithm for variance.
package snapshot
