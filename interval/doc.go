/*Package interval loads region lists: per-sequence lists of half-open
  [begin, end) intervals, used to restrict statistics to parts of each
  sequence.  Unlike a BED union, intervals are kept exactly as read: in file
  order, neither merged nor validated.
*/
package interval
