package main

import (
	"context"
	"encoding/base64"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"

	"github.com/anggasct/rtsignal"
	"github.com/anggasct/rtsignal/clock"
	"github.com/anggasct/rtsignal/config"
	"github.com/anggasct/rtsignal/hw"
	"github.com/anggasct/rtsignal/pkg/observers"
	"github.com/anggasct/rtsignal/visualization"
)

var (
	// .env is read first so that it feeds the flag defaults below
	_ = godotenv.Load()

	// site file on disk, takes precedence over -site
	configPath = flag.String("config", "", "site config file path")
	// base64 encoded site file, used when the file system is read-only
	configData = flag.String("config-data", "", "site config base64 encoded data")
	// embedded site
	site = flag.String("site", envOr("RTSIGNAL_SITE", "rx-a"), "embedded site name")
	// beacon link, overrides the site file
	serialPort = flag.String("serial", os.Getenv("RTSIGNAL_SERIAL"), "serial port of the beacon receiver")
	baud       = flag.Int("baud", 0, "serial baud rate (0 keeps the site value)")
	// replay frames from a file ("-" for stdin) instead of the serial link
	input = flag.String("input", "", "frame file to replay, - for stdin")
	// drive the real signal head, otherwise outputs are only logged
	useGPIO = flag.Bool("gpio", false, "drive the GPIO pins of the site")
	// write the automaton graph and exit
	dotPath = flag.String("dot", "", "write the automaton graph in DOT format to this file and exit")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", envOr("RTSIGNAL_LOG_LEVEL", "info"), "log level (trace debug info warn error critical off)")

	log = logrus.WithField("module", "rtsignal")
)

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	if *dotPath != "" {
		if err := visualization.NewDOTGenerator(rtsignal.Graph()).GenerateToFile(*dotPath); err != nil {
			log.Panicf("write graph err: %v", err)
		}
		log.Infof("automaton graph written to %s", *dotPath)
		return
	}

	c := loadConfig()
	log.Infof("site %s: %d routes, pins %+v", c.Site, len(c.Routes), c.Pins)

	reg, err := c.Registry()
	if err != nil {
		log.Panicf("registry err: %v", err)
	}

	driver, closeDriver := openDriver(c)
	defer closeDriver()

	tracker := c.NewTracker()
	automaton := rtsignal.NewAutomaton(reg, tracker, driver, c.Timing())
	metrics := observers.NewMetricsObserver()
	automaton.AddObserver(observers.NewDefaultLoggingObserver())
	automaton.AddObserver(metrics)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reader := rtsignal.NewLineReader(reg)
	src := openInput(c)
	defer src.Close()
	if err := reader.Start(src); err != nil {
		log.Panicf("reader err: %v", err)
	}
	go func() {
		select {
		case <-reader.Done():
		case <-ctx.Done():
			return
		}
		if err := reader.Err(); err != nil {
			log.Errorf("input closed: %v", err)
			cancel()
			return
		}
		log.Info("input exhausted, signal head keeps running until interrupted")
	}()

	ctrl := rtsignal.NewController(clock.NewMonotonic(), reader, tracker, automaton, c.ControllerOptions()...)
	if err := ctrl.Run(ctx); err != nil {
		log.Errorf("controller err: %v", err)
	}

	log.Infof("stopped: %d sequences, %d departures, %d faults, %d errors, %d rejected frames",
		metrics.GetSequenceCount(), metrics.GetDepartureCount(), metrics.GetFaultCount(),
		metrics.GetErrorCount(), reader.Rejected())
}

func loadConfig() *config.Config {
	var c *config.Config
	var err error
	switch {
	case *configPath != "":
		c, err = config.Load(*configPath)
	case *configData != "":
		var data []byte
		data, err = base64.StdEncoding.DecodeString(*configData)
		if err == nil {
			c, err = config.Parse(data)
		}
	default:
		c, err = config.LoadSite(*site)
	}
	if err != nil {
		log.Panicf("config load err: %v", err)
	}
	if *serialPort != "" {
		c.Serial.Port = *serialPort
	}
	if *baud > 0 {
		c.Serial.Baud = *baud
	}
	return c
}

func openDriver(c *config.Config) (rtsignal.LEDDriver, func()) {
	if !*useGPIO {
		log.Info("dry run, outputs are not driven")
		return rtsignal.NewLEDBank(), func() {}
	}
	names := make(map[rtsignal.Output]string)
	for _, o := range rtsignal.AllOutputs() {
		names[o] = c.PinName(o)
	}
	d, err := hw.NewGPIODriver(names)
	if err != nil {
		log.Panicf("gpio err: %v", err)
	}
	return d, func() {
		if err := d.Close(); err != nil {
			log.Warnf("gpio close err: %v", err)
		}
	}
}

func openInput(c *config.Config) io.ReadCloser {
	switch *input {
	case "":
		p, err := hw.OpenSerial(c.Serial.Port, c.Serial.Baud)
		if err != nil {
			ports, _ := hw.SerialPorts()
			log.Panicf("serial err: %v (available: %v)", err, ports)
		}
		return p
	case "-":
		return io.NopCloser(os.Stdin)
	default:
		f, err := os.Open(*input)
		if err != nil {
			log.Panicf("input err: %v", err)
		}
		return f
	}
}
