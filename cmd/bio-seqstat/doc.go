/*
bio-seqstat computes summary statistics of FASTA and FASTQ files.  Inputs
may be gzipped, and "-" (or no argument, where allowed) reads standard input.

  bio-seqstat comp [-u] [-g] [-r regions] [in.fa|-]

prints the nucleotide composition of each record, one line per record:

  name length #A #C #G #T #2 #3 #4 #CpG #tv #ts #CpG-ts

#2, #3 and #4 count 2-, 3- and 4-fold ambiguity codes.  #CpG counts C (or Y)
bases followed by G (or R); -g also counts the G of each pair.  #tv counts
2-fold codes other than R and Y, #ts counts R and Y, and #CpG-ts counts R and
Y at CpG sites.  -u ignores lower-case bases.  With -r, only the intervals
listed in the region file are counted, and "name begin end" replaces "name
length".  Each line of the region file is

  name             count the whole record
  name pos         count the 1-based position pos
  name begin end   count the 0-based half-open interval [begin,end)

  bio-seqstat fqchk [-q 20] [-offset 33] [-per-read] in.fq|-

prints, for every read position and for all positions together, the base
composition, the average quality, the error rate expressed as a Phred score,
and the percentage of bases below and at or above the -q threshold.  With -q
0, the percentage of every quality score seen in the input is printed
instead.  -per-read appends the number of reads by GC content (20 bins 0.05
wide), by rounded mean quality and by length.

  bio-seqstat seq [-A] [-l width] [in.fa|-]

rewrites the input, wrapping sequence and quality lines every width bases.
-A drops qualities, converting FASTQ to FASTA.
*/
package main
