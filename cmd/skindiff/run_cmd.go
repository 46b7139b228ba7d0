package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/onwhenrdy/skindiff/internal/config"
	"github.com/onwhenrdy/skindiff/internal/engine"
	"github.com/onwhenrdy/skindiff/internal/param"
	"github.com/onwhenrdy/skindiff/internal/plotting"
)

var (
	configFile string
	plotFlag   bool
)

var runCmd = &cobra.Command{
	Use:   "run [legacy positional args...]",
	Short: "Run a simulation from a JSON config file or the legacy positional argument form.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParameter(configFile, args)
		if err != nil {
			log.WithError(err).Error("could not load configuration")
			return err
		}

		fmt.Print(appVersion.Banner())
		fmt.Println(p.OverviewString())

		e, err := engine.New(p)
		if err != nil {
			log.WithError(err).Error("could not build engine")
			return err
		}
		e.SetHooks(newCmdHooks(p.Log, e.SimTime()))

		log.WithField("sim_time", e.SimTime()).Info("starting run")
		result, err := e.Run()
		if err != nil {
			log.WithError(err).Error("run failed")
			return err
		}
		log.WithField("result", result).Info("run finished")

		if err := e.WriteLogsToFiles(); err != nil {
			log.WithError(err).Error("could not write logs")
			return err
		}

		if plotFlag {
			if err := renderPlots(e, p.Log.WorkingDir, p.Log.Tag); err != nil {
				log.WithError(err).Error("could not render plots")
				return err
			}
		}

		fmt.Println("\nComputation done.")
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&configFile, "config", "", "JSON config file (if unset, positional legacy arguments are used)")
	runCmd.Flags().BoolVar(&plotFlag, "plot", false, "render mass and concentration-profile plots as PNG")
}

func loadParameter(configFile string, positional []string) (param.Parameter, error) {
	if configFile != "" {
		return config.ParseFile(configFile)
	}
	if len(positional) > 0 {
		return config.ParsePositional(positional)
	}
	return param.Parameter{}, fmt.Errorf("run: either --config or the legacy positional arguments must be given")
}

func renderPlots(e *engine.Engine, workingDir, tag string) error {
	if e.SinkLogger().Enabled() {
		path := filepath.Join(workingDir, tag+"_"+e.Sink().Name()+"_mass.png")
		if err := plotting.RenderMass(e.SinkLogger(), path); err != nil {
			return err
		}
	}
	p := e.Parameter()
	names := []string{p.Vehicle.Name}
	for _, layer := range p.Layers {
		names = append(names, layer.Name)
	}
	for i, l := range e.CompartmentLoggers() {
		if !l.Enabled() {
			continue
		}
		path := filepath.Join(workingDir, tag+"_"+names[i]+"_mass.png")
		if err := plotting.RenderMass(l, path); err != nil {
			return err
		}
	}
	for i, l := range e.CDPLoggers() {
		if !l.Enabled() {
			continue
		}
		path := filepath.Join(workingDir, tag+"_"+names[i]+"_cdp.png")
		if err := plotting.RenderProfile(l, path); err != nil {
			return err
		}
	}
	return nil
}
