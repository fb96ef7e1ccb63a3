package test

// SampleVCF returns a small bcftools-style VCF whose QUAL values are 50, 30.5 and 221.999.
func SampleVCF() string {
	return `##fileformat=VCFv4.2
##source=bcftools_callVersion=1.17
##contig=<ID=chr1,length=248956422>
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	sampleA
chr1	10177	.	A	AC	50	.	DP=12;MQ=60	GT:PL	0/1:80,0,70
chr1	10352	.	T	TA	30.5	.	DP=8;MQ=58	GT:PL	0/1:60,0,50
chr1	10616	.	CCGCCGTTGCAAAGGCGCGCCG	C	221.999	.	DP=30;MQ=60	GT:PL	1/1:255,90,0
`
}

// HeaderOnlyVCF returns a VCF with no variant records.
func HeaderOnlyVCF() string {
	return `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
`
}

// SampleSettingsYAML returns a settings file overriding every key.
func SampleSettingsYAML() string {
	return `tools:
  bwa: /opt/bio/bin/bwa
  samtools: /opt/bio/bin/samtools
  bcftools: /opt/bio/bin/bcftools
qual:
  field: 5
  comment-prefix: "#"
`
}

// InvalidSettingsYAML returns YAML with keys the settings document does not define.
func InvalidSettingsYAML() string {
	return `tools:
  bwa: bwa
  gatk: gatk
threads: 8
`
}
