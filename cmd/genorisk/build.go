package main

import (
	"fmt"
	"io"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/genorisk/genorisk/internal/annotate"
	"github.com/genorisk/genorisk/internal/clinvar"
	"github.com/genorisk/genorisk/internal/pipeline"
	"github.com/genorisk/genorisk/internal/predict"
	"github.com/genorisk/genorisk/internal/prs"
	"github.com/genorisk/genorisk/internal/regulome"
	"github.com/genorisk/genorisk/internal/uniprot"
)

// buildPipeline assembles the pipeline from configuration. Stages whose
// data files are not configured are simply left off; the returned closers
// must be run when the pipeline is no longer needed.
func buildPipeline(logger *zap.Logger) (*pipeline.Pipeline, []io.Closer, error) {
	p := pipeline.New()
	p.SetLogger(logger)
	var closers []io.Closer

	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	runner := annotate.NewRunner(viper.GetString("vep.binary"), "")
	runner.SetAssembly(viper.GetString("vep.assembly"))
	runner.SetLogger(logger)
	p.SetAnnotator(runner)

	seqs := uniprot.NewClient()
	if base := viper.GetString("uniprot.base_url"); base != "" {
		seqs.SetBaseURL(base)
	}
	seqs.SetLogger(logger)
	p.SetSequenceSource(seqs)

	if path := viper.GetString("data.clinvar_db"); path != "" {
		store, err := clinvar.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open clinvar store: %w", err)
		}
		closers = append(closers, store)

		resolver := clinvar.NewResolver(store.Primary(), store.Secondary())
		resolver.SetLogger(logger)
		p.SetClinicalResolver(resolver)
	}

	if path := viper.GetString("data.regulome_db"); path != "" {
		store, err := regulome.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open regulome store: %w", err)
		}
		closers = append(closers, store)

		resolver := regulome.NewResolver(store)
		resolver.SetLogger(logger)
		p.SetRegulatoryResolver(resolver)
	}

	if path := viper.GetString("prs.panel"); path != "" {
		panel, err := prs.LoadPanel(path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("load prs panel: %w", err)
		}
		scorer := prs.NewScorer(panel)
		scorer.SetLogger(logger)
		p.SetPRS(scorer, prs.NewThresholdSet())
		p.SetSex(viper.GetString("prs.sex"))
	}

	if weights := viper.GetString("model.weights"); weights != "" {
		scorer, err := buildPredictor(weights)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		scorer.SetLogger(logger)
		p.SetPredictor(scorer)
	}

	return p, closers, nil
}

// buildPredictor loads the model artifact, reference genome and optional
// gene encoder named in configuration.
func buildPredictor(weightsPath string) (*predict.Scorer, error) {
	model, err := predict.LoadWeightModel(weightsPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	fastaPath := viper.GetString("data.genome_fasta")
	if fastaPath == "" {
		return nil, fmt.Errorf("model.weights is set but data.genome_fasta is not")
	}
	genome := predict.NewFASTAGenome(fastaPath)
	if err := genome.Load(); err != nil {
		return nil, fmt.Errorf("load reference genome: %w", err)
	}

	var genes *predict.GeneEncoder
	if path := viper.GetString("model.gene_encoder"); path != "" {
		genes, err = predict.LoadGeneEncoder(path)
		if err != nil {
			return nil, fmt.Errorf("load gene encoder: %w", err)
		}
	}

	return predict.NewScorer(genome, model, genes), nil
}
